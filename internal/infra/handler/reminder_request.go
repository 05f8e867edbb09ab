package handler

import "time"

type ListRequest struct {
	Filter string `form:"filter"`
}

type CreateReminderRequest struct {
	Title   string    `json:"title" binding:"required"`
	DueDate time.Time `json:"due_date" binding:"required"`
	Notes   *string   `json:"notes"`
}

type EditReminderRequest struct {
	Title    string    `json:"title" binding:"required"`
	DueDate  time.Time `json:"due_date" binding:"required"`
	Notes    *string   `json:"notes"`
	Complete bool      `json:"complete"`
}

type RowRequest struct {
	Row int `uri:"row" binding:"min=0"`
}

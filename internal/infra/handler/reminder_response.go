package handler

import (
	"time"

	"github.com/KasumiMercury/primind-today/internal/app"
)

type ReminderResponse struct {
	ID       string    `json:"id"`
	Title    string    `json:"title"`
	DueDate  time.Time `json:"due_date"`
	Notes    *string   `json:"notes,omitempty"`
	Complete bool      `json:"complete"`
}

type RowResponse struct {
	ReminderResponse
	DueText string `json:"due_text"`
}

type ListResponse struct {
	Filter          string        `json:"filter"`
	Rows            []RowResponse `json:"rows"`
	PercentComplete float64       `json:"percent_complete"`
	Access          string        `json:"access"`
}

type AddResponse struct {
	Reminder      ReminderResponse `json:"reminder"`
	FilteredIndex *int             `json:"filtered_index"`
}

type DetailRowResponse struct {
	Icon string `json:"icon,omitempty"`
	Text string `json:"text"`
}

type DetailResponse struct {
	Reminder ReminderResponse    `json:"reminder"`
	Rows     []DetailRowResponse `json:"rows"`
}

type FieldResponse struct {
	Name  string `json:"name"`
	Kind  string `json:"kind"`
	Label string `json:"label"`
	Value string `json:"value"`
}

type EditFormResponse struct {
	ReminderID string          `json:"reminder_id"`
	Complete   bool            `json:"complete"`
	Fields     []FieldResponse `json:"fields"`
}

type AccessResponse struct {
	Access string `json:"access"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

func FromReminderDTO(output app.ReminderOutput) ReminderResponse {
	return ReminderResponse{
		ID:       output.ID,
		Title:    output.Title,
		DueDate:  output.DueDate,
		Notes:    output.Notes,
		Complete: output.Complete,
	}
}

func FromListDTO(output app.ListOutput) ListResponse {
	rows := make([]RowResponse, 0, len(output.Rows))
	for _, r := range output.Rows {
		rows = append(rows, RowResponse{
			ReminderResponse: FromReminderDTO(r.ReminderOutput),
			DueText:          r.DueText,
		})
	}

	return ListResponse{
		Filter:          string(output.Filter),
		Rows:            rows,
		PercentComplete: output.PercentComplete,
		Access:          string(output.Access),
	}
}

func FromDetailDTO(output app.DetailOutput) DetailResponse {
	rows := make([]DetailRowResponse, 0, len(output.Rows))
	for _, r := range output.Rows {
		rows = append(rows, DetailRowResponse{Icon: r.Icon, Text: r.Text})
	}

	return DetailResponse{
		Reminder: FromReminderDTO(output.Reminder),
		Rows:     rows,
	}
}

func FromEditFormDTO(output app.EditFormOutput) EditFormResponse {
	fields := make([]FieldResponse, 0, len(output.Fields))
	for _, f := range output.Fields {
		fields = append(fields, FieldResponse{
			Name:  f.Name,
			Kind:  string(f.Kind),
			Label: f.Label,
			Value: f.Value,
		})
	}

	return EditFormResponse{
		ReminderID: output.ReminderID,
		Complete:   output.Complete,
		Fields:     fields,
	}
}

package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/emersion/go-ical"
	"github.com/emersion/go-webdav/caldav"
	"github.com/google/uuid"

	"github.com/KasumiMercury/primind-today/internal/domain"
)

const (
	productID       = "-//primind//today//EN"
	statusCompleted = "COMPLETED"
	statusNeeds     = "NEEDS-ACTION"
)

type CalDAVConfig struct {
	URL      string
	Username string
	Password string
	// Calendar is the collection path holding the VTODO objects.
	Calendar string
	Timeout  time.Duration
}

var ErrProbeFailed = errors.New("caldav collection unavailable")

// CalDAVStore keeps reminders as VTODO objects in a CalDAV collection.
type CalDAVStore struct {
	cfg    CalDAVConfig
	http   *http.Client
	client *caldav.Client

	mu     sync.Mutex
	access domain.AccessState
}

var _ domain.ReminderStore = (*CalDAVStore)(nil)

func NewCalDAVStore(cfg CalDAVConfig) (*CalDAVStore, error) {
	if cfg.URL == "" || cfg.Calendar == "" {
		return nil, errors.New("caldav url and calendar are required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	httpClient := &http.Client{
		Transport: &basicAuthTransport{
			username: cfg.Username,
			password: cfg.Password,
		},
		Timeout: timeout,
	}

	client, err := caldav.NewClient(httpClient, cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("connect to CalDAV: %w", err)
	}

	return &CalDAVStore{
		cfg:    cfg,
		http:   httpClient,
		client: client,
		access: domain.AccessUndetermined,
	}, nil
}

type basicAuthTransport struct {
	username string
	password string
}

func (t *basicAuthTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	if t.username != "" {
		req.SetBasicAuth(t.username, t.password)
	}

	return http.DefaultTransport.RoundTrip(req)
}

// AuthorizationStatus is undetermined until RequestAccess has probed the
// collection once.
func (s *CalDAVStore) AuthorizationStatus(_ context.Context) (domain.AccessState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.access, nil
}

// RequestAccess probes the collection with the configured credentials. A
// 401 or 403 answer is a denial.
func (s *CalDAVStore) RequestAccess(ctx context.Context) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodOptions, s.collectionURL(), nil)
	if err != nil {
		return false, err
	}

	resp, err := s.http.Do(req)
	if err != nil {
		return false, fmt.Errorf("probe caldav collection: %w", err)
	}
	defer resp.Body.Close()

	// the decision stays undetermined when the server cannot answer
	if resp.StatusCode == http.StatusNotFound || resp.StatusCode >= http.StatusInternalServerError {
		slog.Warn("caldav access probe failed",
			"status", resp.StatusCode,
		)

		return false, fmt.Errorf("%w: probe caldav collection: %s", ErrProbeFailed, resp.Status)
	}

	state := domain.AccessGranted
	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		state = domain.AccessDenied
	}

	s.mu.Lock()
	s.access = state
	s.mu.Unlock()

	slog.Debug("caldav access probed",
		"status", resp.StatusCode,
		"access", state,
	)

	return state == domain.AccessGranted, nil
}

func (s *CalDAVStore) QueryAll(ctx context.Context) ([]domain.StoreRecord, error) {
	objects, err := s.client.QueryCalendar(ctx, s.cfg.Calendar, todoQuery(""))
	if err != nil {
		return nil, fmt.Errorf("query calendar: %w", err)
	}

	records := make([]domain.StoreRecord, 0, len(objects))
	for i := range objects {
		rec, ok := recordFromCalendar(objects[i].Data)
		if !ok {
			slog.Debug("skipping calendar object without VTODO",
				"path", objects[i].Path,
			)

			continue
		}

		records = append(records, rec)
	}

	return records, nil
}

func (s *CalDAVStore) Save(ctx context.Context, reminder domain.Reminder) (domain.ReminderID, error) {
	uid := reminder.ID().String()
	rec := recordFromReminder(reminder)

	if reminder.ID().IsZero() {
		uid = uuid.NewString()
		rec.ID = uid
	} else {
		existing, found, err := s.find(ctx, uid)
		if err != nil {
			return domain.ReminderID{}, err
		}

		if !found {
			return domain.ReminderID{}, domain.ErrReminderNotFound
		}

		rec.DueDate = mergeDueDate(existing.DueDate, rec.DueDate)
	}

	if _, err := s.client.PutCalendarObject(ctx, s.objectPath(uid), calendarFromRecord(rec, time.Now())); err != nil {
		return domain.ReminderID{}, fmt.Errorf("put calendar object: %w", err)
	}

	return domain.ReminderIDFromString(uid)
}

func (s *CalDAVStore) Remove(ctx context.Context, id domain.ReminderID) error {
	_, found, err := s.find(ctx, id.String())
	if err != nil {
		return err
	}

	if !found {
		return domain.ErrReminderNotFound
	}

	if err := s.client.RemoveAll(ctx, s.objectPath(id.String())); err != nil {
		return fmt.Errorf("remove calendar object: %w", err)
	}

	return nil
}

func (s *CalDAVStore) find(ctx context.Context, uid string) (domain.StoreRecord, bool, error) {
	objects, err := s.client.QueryCalendar(ctx, s.cfg.Calendar, todoQuery(uid))
	if err != nil {
		return domain.StoreRecord{}, false, fmt.Errorf("query calendar: %w", err)
	}

	for i := range objects {
		if rec, ok := recordFromCalendar(objects[i].Data); ok && rec.ID == uid {
			return rec, true, nil
		}
	}

	return domain.StoreRecord{}, false, nil
}

func (s *CalDAVStore) objectPath(uid string) string {
	p := s.cfg.Calendar
	if !strings.HasSuffix(p, "/") {
		p += "/"
	}

	return p + uid + ".ics"
}

func (s *CalDAVStore) collectionURL() string {
	return strings.TrimSuffix(s.cfg.URL, "/") + "/" + strings.TrimPrefix(s.cfg.Calendar, "/")
}

// todoQuery selects every VTODO, or only the one with uid when it is set.
func todoQuery(uid string) *caldav.CalendarQuery {
	todo := caldav.CompFilter{Name: ical.CompToDo}
	if uid != "" {
		todo.Props = []caldav.PropFilter{{
			Name:      ical.PropUID,
			TextMatch: &caldav.TextMatch{Text: uid},
		}}
	}

	return &caldav.CalendarQuery{
		CompRequest: caldav.CalendarCompRequest{
			Name:     ical.CompCalendar,
			AllProps: true,
			AllComps: true,
		},
		CompFilter: caldav.CompFilter{
			Name:  ical.CompCalendar,
			Comps: []caldav.CompFilter{todo},
		},
	}
}

func recordFromCalendar(cal *ical.Calendar) (domain.StoreRecord, bool) {
	if cal == nil {
		return domain.StoreRecord{}, false
	}

	for _, comp := range cal.Children {
		if comp.Name != ical.CompToDo {
			continue
		}

		rec := domain.StoreRecord{}

		if prop := comp.Props.Get(ical.PropUID); prop != nil {
			rec.ID = prop.Value
		}

		if title, err := comp.Props.Text(ical.PropSummary); err == nil {
			rec.Title = title
		}

		if notes, err := comp.Props.Text(ical.PropDescription); err == nil && notes != "" {
			rec.Notes = &notes
		}

		if prop := comp.Props.Get(ical.PropDue); prop != nil {
			if t, err := prop.DateTime(time.UTC); err == nil {
				rec.DueDate = &t
			}
		}

		if prop := comp.Props.Get(ical.PropStatus); prop != nil {
			rec.Complete = strings.EqualFold(prop.Value, statusCompleted)
		}

		return rec, true
	}

	return domain.StoreRecord{}, false
}

func calendarFromRecord(rec domain.StoreRecord, stamp time.Time) *ical.Calendar {
	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, productID)

	todo := ical.NewComponent(ical.CompToDo)
	todo.Props.SetText(ical.PropUID, rec.ID)
	todo.Props.SetDateTime(ical.PropDateTimeStamp, stamp.UTC())
	todo.Props.SetText(ical.PropSummary, rec.Title)

	if rec.Notes != nil && *rec.Notes != "" {
		todo.Props.SetText(ical.PropDescription, *rec.Notes)
	}

	if rec.DueDate != nil {
		todo.Props.SetDateTime(ical.PropDue, rec.DueDate.UTC())
	}

	if rec.Complete {
		todo.Props.SetText(ical.PropStatus, statusCompleted)
		todo.Props.SetDateTime(ical.PropCompleted, stamp.UTC())
	} else {
		todo.Props.SetText(ical.PropStatus, statusNeeds)
	}

	cal.Children = append(cal.Children, todo)

	return cal
}

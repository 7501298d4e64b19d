package legistar

import (
	"context"
	"iter"
	"time"

	"github.com/opencivics/engage/internal/core/domain"
	"github.com/opencivics/engage/internal/core/ports/driven"
	"github.com/opencivics/engage/internal/logger"
)

// Crawler walks a customer's Legistar site. Each Crawl call runs one
// Session, so every distinct page is fetched at most once per pass.
type Crawler struct {
	client *Client
}

var _ driven.Crawler = (*Crawler)(nil)

// NewCrawler creates a crawler over the given client.
func NewCrawler(client *Client) *Crawler {
	return &Crawler{client: client}
}

// Crawl implements the driven crawler port.
func (c *Crawler) Crawl(ctx context.Context, opts driven.CrawlOptions) iter.Seq2[domain.Entity, error] {
	return NewSession(c.client, opts.Start).All(ctx)
}

// Session memoizes one crawl pass. Detail pages are keyed by guid;
// asking for the same guid twice returns the cached entity without a
// second fetch, no matter how many rows reference it. A session's
// cache is not meant to be reused across passes; start a new one.
type Session struct {
	client       *Client
	start        *time.Time
	calendar     *domain.Calendar
	meetings     map[string]*domain.Meeting
	legislations map[string]*domain.Legislation
	actions      map[string]*domain.Action
}

// NewSession starts a crawl session. With a non-nil start date, the
// calendar keeps only rows dated on or after it.
func NewSession(client *Client, start *time.Time) *Session {
	return &Session{
		client:       client,
		start:        start,
		meetings:     make(map[string]*domain.Meeting),
		legislations: make(map[string]*domain.Legislation),
		actions:      make(map[string]*domain.Action),
	}
}

// Calendar returns the calendar, fetching it on first call.
func (s *Session) Calendar(ctx context.Context) (*domain.Calendar, error) {
	if s.calendar == nil {
		logger.Stage("CRAWL", "get_calendar()")
		calendar, err := s.client.GetCalendar(ctx)
		if err != nil {
			return nil, err
		}
		if s.start != nil {
			kept := make([]domain.CalendarRow, 0, len(calendar.Rows))
			for _, row := range calendar.Rows {
				if !row.Date.Before(*s.start) {
					kept = append(kept, row)
				}
			}
			calendar.Rows = kept
		}
		s.calendar = calendar
	}
	return s.calendar, nil
}

// Meeting returns one meeting, fetching it on first call per guid.
func (s *Session) Meeting(ctx context.Context, id int64, guid string) (*domain.Meeting, error) {
	if meeting, ok := s.meetings[guid]; ok {
		return meeting, nil
	}
	logger.Stage("CRAWL", "get_meeting(%s)", s.client.MeetingURL(id, guid))
	meeting, err := s.client.GetMeeting(ctx, id, guid)
	if err != nil {
		return nil, err
	}
	s.meetings[guid] = meeting
	return meeting, nil
}

// Legislation returns one piece of legislation, fetching it on first
// call per guid.
func (s *Session) Legislation(ctx context.Context, id int64, guid string) (*domain.Legislation, error) {
	if legislation, ok := s.legislations[guid]; ok {
		return legislation, nil
	}
	logger.Stage("CRAWL", "get_legislation(%s)", s.client.LegislationURL(id, guid))
	legislation, err := s.client.GetLegislation(ctx, id, guid)
	if err != nil {
		return nil, err
	}
	s.legislations[guid] = legislation
	return legislation, nil
}

// Action returns one action, fetching it on first call per guid.
func (s *Session) Action(ctx context.Context, id int64, guid string) (*domain.Action, error) {
	if action, ok := s.actions[guid]; ok {
		return action, nil
	}
	logger.Stage("CRAWL", "get_action(%s)", s.client.ActionURL(id, guid))
	action, err := s.client.GetAction(ctx, id, guid)
	if err != nil {
		return nil, err
	}
	s.actions[guid] = action
	return action, nil
}

// All returns the session's entity sequence: the calendar, then every
// meeting in calendar row order, then every legislation referenced by
// any meeting row, then every action referenced by any legislation
// row. Legislation and actions are deduplicated by guid in first-seen
// order, so each appears exactly once. Legislation rows without an
// action details link reference no action and are skipped.
//
// The sequence is lazy; pages are fetched as the consumer advances.
// Any fetch or parse failure is yielded and ends the sequence.
func (s *Session) All(ctx context.Context) iter.Seq2[domain.Entity, error] {
	return func(yield func(domain.Entity, error) bool) {
		calendar, err := s.Calendar(ctx)
		if err != nil {
			yield(nil, err)
			return
		}
		if !yield(calendar, nil) {
			return
		}

		meetings := make([]*domain.Meeting, 0, len(calendar.Rows))
		for _, row := range calendar.Rows {
			id, guid, err := linkIdentity(row.Details)
			if err != nil {
				yield(nil, err)
				return
			}
			meeting, err := s.Meeting(ctx, id, guid)
			if err != nil {
				yield(nil, err)
				return
			}
			if !yield(meeting, nil) {
				return
			}
			meetings = append(meetings, meeting)
		}

		var legislations []*domain.Legislation
		seenLegislation := make(map[string]bool)
		for _, meeting := range meetings {
			for _, row := range meeting.Rows {
				id, guid, err := linkIdentity(row.Legislation)
				if err != nil {
					yield(nil, err)
					return
				}
				if seenLegislation[guid] {
					continue
				}
				seenLegislation[guid] = true
				legislation, err := s.Legislation(ctx, id, guid)
				if err != nil {
					yield(nil, err)
					return
				}
				if !yield(legislation, nil) {
					return
				}
				legislations = append(legislations, legislation)
			}
		}

		seenAction := make(map[string]bool)
		for _, legislation := range legislations {
			for _, row := range legislation.Rows {
				if row.ActionDetails == nil {
					continue
				}
				id, guid, err := linkIdentity(*row.ActionDetails)
				if err != nil {
					yield(nil, err)
					return
				}
				if seenAction[guid] {
					continue
				}
				seenAction[guid] = true
				action, err := s.Action(ctx, id, guid)
				if err != nil {
					yield(nil, err)
					return
				}
				if !yield(action, nil) {
					return
				}
			}
		}
	}
}

func linkIdentity(link domain.Link) (int64, string, error) {
	id, err := link.LegistarID()
	if err != nil {
		return 0, "", err
	}
	guid, err := link.LegistarGUID()
	if err != nil {
		return 0, "", err
	}
	return id, guid, nil
}

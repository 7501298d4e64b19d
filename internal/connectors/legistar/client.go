package legistar

import (
	"context"
	"fmt"
	"net/url"

	"golang.org/x/net/html"

	"github.com/opencivics/engage/internal/core/domain"
	"github.com/opencivics/engage/internal/core/ports/driven"
)

// Client fetches and parses single pages from one customer's Legistar
// site. Legistar also has a JSON API, but it exposes only a subset of
// what the website shows, so the client scrapes the HTML pages.
type Client struct {
	customer string
	base     *url.URL
	fetcher  driven.Fetcher
}

// NewClient creates a client for a Legistar customer, like "seattle".
func NewClient(customer string, fetcher driven.Fetcher) (*Client, error) {
	if customer == "" {
		return nil, fmt.Errorf("%w: customer is required", domain.ErrInvalidInput)
	}
	if fetcher == nil {
		return nil, fmt.Errorf("%w: fetcher is required", domain.ErrInvalidInput)
	}
	base, err := url.Parse(fmt.Sprintf("https://%s.legistar.com", customer))
	if err != nil {
		return nil, fmt.Errorf("base url for customer %q: %w", customer, err)
	}
	return &Client{customer: customer, base: base, fetcher: fetcher}, nil
}

// Customer returns the Legistar customer name.
func (c *Client) Customer() string {
	return c.customer
}

// CalendarURL returns the URL of the customer's calendar page.
func (c *Client) CalendarURL() string {
	return c.base.String() + "/Calendar.aspx"
}

// MeetingURL returns the URL of a meeting detail page.
func (c *Client) MeetingURL(id int64, guid string) string {
	return c.detailURL("/MeetingDetail.aspx", id, guid)
}

// LegislationURL returns the URL of a legislation detail page.
func (c *Client) LegislationURL(id int64, guid string) string {
	return c.detailURL("/LegislationDetail.aspx", id, guid)
}

// ActionURL returns the URL of an action detail page.
func (c *Client) ActionURL(id int64, guid string) string {
	return c.detailURL("/HistoryDetail.aspx", id, guid)
}

func (c *Client) detailURL(path string, id int64, guid string) string {
	return fmt.Sprintf("%s%s?ID=%d&GUID=%s", c.base.String(), path, id, url.QueryEscape(guid))
}

func (c *Client) page(ctx context.Context, pageURL string) (*html.Node, error) {
	body, _, err := c.fetcher.Fetch(ctx, pageURL)
	if err != nil {
		return nil, err
	}
	root, err := parsePage(body)
	if err != nil {
		return nil, &domain.ParseError{Page: pageURL, Detail: err.Error()}
	}
	return root, nil
}

// GetCalendar scrapes the calendar page.
func (c *Client) GetCalendar(ctx context.Context) (*domain.Calendar, error) {
	pageURL := c.CalendarURL()
	root, err := c.page(ctx, pageURL)
	if err != nil {
		return nil, err
	}
	table, err := newTableScraper(root, c.base, pageURL)
	if err != nil {
		return nil, err
	}
	if err := table.requireHeaders(calendarRowHeaders); err != nil {
		return nil, err
	}
	calendar := &domain.Calendar{}
	for _, row := range table.rows() {
		made, err := makeCalendarRow(row)
		if err != nil {
			return nil, err
		}
		calendar.Rows = append(calendar.Rows, *made)
	}
	return calendar, nil
}

// GetMeeting scrapes a meeting detail page.
func (c *Client) GetMeeting(ctx context.Context, id int64, guid string) (*domain.Meeting, error) {
	pageURL := c.MeetingURL(id, guid)
	details, table, err := c.detailAndTable(ctx, pageURL, meetingRowHeaders, meetingDetailLabels)
	if err != nil {
		return nil, err
	}
	return makeMeeting(id, guid, pageURL, details, table)
}

// GetLegislation scrapes a legislation detail page.
func (c *Client) GetLegislation(ctx context.Context, id int64, guid string) (*domain.Legislation, error) {
	pageURL := c.LegislationURL(id, guid)
	details, table, err := c.detailAndTable(ctx, pageURL, legislationRowHeaders, legislationDetailLabels)
	if err != nil {
		return nil, err
	}
	return makeLegislation(id, guid, pageURL, details, table)
}

// GetAction scrapes an action detail page.
func (c *Client) GetAction(ctx context.Context, id int64, guid string) (*domain.Action, error) {
	pageURL := c.ActionURL(id, guid)
	details, table, err := c.detailAndTable(ctx, pageURL, actionRowHeaders, actionDetailLabels)
	if err != nil {
		return nil, err
	}
	return makeAction(id, guid, pageURL, details, table)
}

// detailAndTable fetches a detail page and checks both its grid table
// and its details view against the expected schema.
func (c *Client) detailAndTable(ctx context.Context, pageURL string, headers, labels []string) (*detailScraper, *tableScraper, error) {
	root, err := c.page(ctx, pageURL)
	if err != nil {
		return nil, nil, err
	}
	table, err := newTableScraper(root, c.base, pageURL)
	if err != nil {
		return nil, nil, err
	}
	if err := table.requireHeaders(headers); err != nil {
		return nil, nil, err
	}
	details, err := newDetailScraper(root, c.base, pageURL)
	if err != nil {
		return nil, nil, err
	}
	if err := details.requireLabels(labels); err != nil {
		return nil, nil, err
	}
	return details, table, nil
}

func makeCalendarRow(row *rowScraper) (*domain.CalendarRow, error) {
	department, err := row.link("name")
	if err != nil {
		return nil, err
	}
	date, err := row.date("meeting date")
	if err != nil {
		return nil, err
	}
	clock, err := row.optionalClock("meeting time")
	if err != nil {
		return nil, err
	}
	location, err := row.text("meeting location")
	if err != nil {
		return nil, err
	}
	details, err := row.link("meeting details")
	if err != nil {
		return nil, err
	}
	agenda, err := row.link("agenda")
	if err != nil {
		return nil, err
	}
	agendaPacket, err := row.optionalLink("agenda packet")
	if err != nil {
		return nil, err
	}
	minutes, err := row.optionalLink("minutes")
	if err != nil {
		return nil, err
	}
	video, err := row.optionalLink("seattle channel")
	if err != nil {
		return nil, err
	}
	return &domain.CalendarRow{
		Department:   department,
		Date:         date,
		Time:         clock,
		Location:     location,
		Details:      details,
		Agenda:       agenda,
		AgendaPacket: agendaPacket,
		Minutes:      minutes,
		Video:        video,
	}, nil
}

func makeMeeting(id int64, guid, pageURL string, details *detailScraper, table *tableScraper) (*domain.Meeting, error) {
	department, err := details.link("meeting name")
	if err != nil {
		return nil, err
	}
	date, clock, err := details.dateAndOptionalClock("meeting date/time")
	if err != nil {
		return nil, err
	}
	location, err := details.text("meeting location")
	if err != nil {
		return nil, err
	}
	agenda, err := details.link("published agenda")
	if err != nil {
		return nil, err
	}
	attachments, err := details.links("attachments")
	if err != nil {
		return nil, err
	}
	meeting := &domain.Meeting{
		LegistarID:   id,
		GUID:         guid,
		URL:          pageURL,
		Department:   department,
		AgendaStatus: details.optionalText("agenda status"),
		Date:         date,
		Time:         clock,
		Location:     location,
		Agenda:       agenda,
		AgendaPacket: details.optionalLink("agenda packet"),
		Minutes:      details.optionalLink("published minutes"),
		Video:        details.optionalLink("meeting video"),
		Attachments:  attachments,
	}
	for _, row := range table.rows() {
		made, err := makeMeetingRow(row)
		if err != nil {
			return nil, err
		}
		meeting.Rows = append(meeting.Rows, *made)
	}
	return meeting, nil
}

func makeMeetingRow(row *rowScraper) (*domain.MeetingRow, error) {
	legislation, err := row.link("record no")
	if err != nil {
		return nil, err
	}
	version, err := row.integer("ver")
	if err != nil {
		return nil, err
	}
	agendaSequence, err := row.optionalInteger("agenda #")
	if err != nil {
		return nil, err
	}
	name, err := row.optionalText("name")
	if err != nil {
		return nil, err
	}
	typ, err := row.text("type")
	if err != nil {
		return nil, err
	}
	title, err := row.text("title")
	if err != nil {
		return nil, err
	}
	action, err := row.optionalText("action")
	if err != nil {
		return nil, err
	}
	result, err := row.optionalText("result")
	if err != nil {
		return nil, err
	}
	actionDetails, err := row.optionalLink("action details")
	if err != nil {
		return nil, err
	}
	video, err := row.optionalLink("seattle channel")
	if err != nil {
		return nil, err
	}
	return &domain.MeetingRow{
		Legislation:    legislation,
		Version:        version,
		AgendaSequence: agendaSequence,
		Name:           name,
		Type:           typ,
		Title:          title,
		Action:         action,
		Result:         result,
		ActionDetails:  actionDetails,
		Video:          video,
	}, nil
}

func makeLegislation(id int64, guid, pageURL string, details *detailScraper, table *tableScraper) (*domain.Legislation, error) {
	recordNo, err := details.text("record no")
	if err != nil {
		return nil, err
	}
	var version *int64
	if details.hasLabel("version") {
		v, err := details.integer("version")
		if err != nil {
			return nil, err
		}
		version = &v
	}
	typ, err := details.text("type")
	if err != nil {
		return nil, err
	}
	controllingBody, err := details.text("current controlling legislative body")
	if err != nil {
		return nil, err
	}
	title, err := details.text("title")
	if err != nil {
		return nil, err
	}
	var sponsors, attachments, supporting []domain.Link
	if details.hasLabel("sponsors") {
		if sponsors, err = details.links("sponsors"); err != nil {
			return nil, err
		}
	}
	if details.hasLabel("attachments") {
		if attachments, err = details.links("attachments"); err != nil {
			return nil, err
		}
	}
	if details.hasLabel("supporting documents") {
		if supporting, err = details.links("supporting documents"); err != nil {
			return nil, err
		}
	}
	legislation := &domain.Legislation{
		LegistarID:          id,
		GUID:                guid,
		URL:                 pageURL,
		RecordNo:            recordNo,
		Version:             version,
		CouncilBillNo:       details.optionalText("council bill no"),
		Type:                typ,
		Status:              details.optionalText("status"),
		ControllingBody:     controllingBody,
		OnAgenda:            details.optionalDate("on agenda"),
		OrdinanceNo:         details.optionalText("ordinance no"),
		Title:               title,
		Sponsors:            sponsors,
		Attachments:         attachments,
		SupportingDocuments: supporting,
	}
	for _, row := range table.rows() {
		made, err := makeLegislationRow(row)
		if err != nil {
			return nil, err
		}
		legislation.Rows = append(legislation.Rows, *made)
	}
	return legislation, nil
}

func makeLegislationRow(row *rowScraper) (*domain.LegislationRow, error) {
	date, err := row.date("date")
	if err != nil {
		return nil, err
	}
	version, err := row.integer("ver")
	if err != nil {
		return nil, err
	}
	actionBy, err := row.text("action by")
	if err != nil {
		return nil, err
	}
	action, err := row.optionalText("action")
	if err != nil {
		return nil, err
	}
	result, err := row.optionalText("result")
	if err != nil {
		return nil, err
	}
	actionDetails, err := row.optionalLink("action details")
	if err != nil {
		return nil, err
	}
	meeting, err := row.optionalLink("meeting details")
	if err != nil {
		return nil, err
	}
	video, err := row.optionalLink("seattle channel")
	if err != nil {
		return nil, err
	}
	return &domain.LegislationRow{
		Date:          date,
		Version:       version,
		ActionBy:      actionBy,
		Action:        action,
		Result:        result,
		ActionDetails: actionDetails,
		Meeting:       meeting,
		Video:         video,
	}, nil
}

func makeAction(id int64, guid, pageURL string, details *detailScraper, table *tableScraper) (*domain.Action, error) {
	recordNo, err := details.text("record no")
	if err != nil {
		return nil, err
	}
	version, err := details.integer("version")
	if err != nil {
		return nil, err
	}
	typ, err := details.text("type")
	if err != nil {
		return nil, err
	}
	title, err := details.text("title")
	if err != nil {
		return nil, err
	}
	actionName, err := details.text("action")
	if err != nil {
		return nil, err
	}
	action := &domain.Action{
		LegistarID:  id,
		GUID:        guid,
		URL:         pageURL,
		RecordNo:    recordNo,
		Version:     version,
		Type:        typ,
		Title:       title,
		Result:      details.optionalText("result"),
		AgendaNote:  details.optionalText("agenda note"),
		MinutesNote: details.optionalText("minutes note"),
		ActionName:  actionName,
		ActionText:  details.optionalText("action text"),
	}
	for _, row := range table.rows() {
		made, err := makeActionRow(row)
		if err != nil {
			return nil, err
		}
		action.Rows = append(action.Rows, *made)
	}
	return action, nil
}

func makeActionRow(row *rowScraper) (*domain.ActionRow, error) {
	person, err := row.link("person name")
	if err != nil {
		return nil, err
	}
	vote, err := row.text("vote")
	if err != nil {
		return nil, err
	}
	return &domain.ActionRow{Person: person, Vote: vote}, nil
}

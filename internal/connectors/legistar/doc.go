// Package legistar scrapes the Legistar legislative records website.
//
// Legistar has a JSON API, but it exposes only a subset of what the
// website shows, so this package works against the HTML pages:
// /Calendar.aspx, /MeetingDetail.aspx, /LegislationDetail.aspx and
// /HistoryDetail.aspx. The pages are parsed schema-strictly: a table
// whose headers differ from the expected list, or a detail view
// missing a required label, is a *domain.ParseError rather than a
// partial result, because downstream persistence assumes the shape.
//
// Client fetches and parses single pages. Crawler walks the whole
// hierarchy through per-session memoized sessions, fetching each
// distinct page at most once per pass.
package legistar

package legistar

// Expected table headers per page, after header cleaning. A scraped
// table must match its list exactly, in order.
var (
	calendarRowHeaders = []string{
		"name",
		"meeting date",
		"", // the ics icon column has no header text
		"meeting time",
		"meeting location",
		"meeting details",
		"agenda",
		"agenda packet",
		"minutes",
		"seattle channel",
	}

	meetingRowHeaders = []string{
		"record no",
		"ver",
		"agenda #",
		"name",
		"type",
		"title",
		"action",
		"result",
		"action details",
		"seattle channel",
	}

	legislationRowHeaders = []string{
		"date",
		"ver",
		"action by",
		"action",
		"result",
		"action details",
		"meeting details",
		"seattle channel",
	}

	actionRowHeaders = []string{
		"person name",
		"vote",
	}
)

// Required detail view labels per page, after header cleaning. A
// scraped view must contain every listed label; extras are ignored.
var (
	meetingDetailLabels = []string{
		"meeting name",
		"agenda status",
		"meeting date/time",
		"meeting location",
		"published agenda",
		"published minutes",
		"agenda packet",
		"meeting video",
		"attachments",
	}

	legislationDetailLabels = []string{
		"record no",
		"council bill no",
		"type",
		"status",
		"current controlling legislative body",
		"on agenda",
		"ordinance no",
		"title",
	}

	actionDetailLabels = []string{
		"record no",
		"version",
		"type",
		"title",
		"result",
		"agenda note",
		"minutes note",
		"action",
		"action text",
	}
)

package summarize

// Prompt templates. {text} marks the slot for chunk text or joined
// partial summaries; <<department>> and <<title>> are caller context
// values. The trailing all-caps cue steers completion models into
// answering instead of continuing the instructions.

const conciseSummaryTemplate = `Write a concise summary of the following text. Include the most important details:

"{text}"

CONCISE_SUMMARY:`

const conciseHeadlineTemplate = `Write a concise and extremely compact headline (one sentence or less) for the following text. Capture only the most salient detail or two:

"{text}"

CONCISE_COMPACT_HEADLINE:`

const meetingConciseTemplate = `The following is a set of descriptions of items on the agenda for an upcoming <<department>> meeting. Write a concise summary of the following text. Include the most important details:

"{text}"

CONCISE_AGENDA_SUMMARY:`

const meetingConciseHeadlineTemplate = `The following is a set of descriptions of items on the agenda for an upcoming <<department>> meeting. Write a concise and extremely compact headline (one sentence or less) for the following text. Capture the most salient detail or two:

"{text}"

CONCISE_COMPACT_HEADLINE_FOR_AGENDA:`

const legislationConciseTemplate = `The following is a set of descriptions of documents related to a single legislative action taken a city council body. Write a concise summary of the following text, which is titled "<<title>>". Include the most important details:

"{text}"

CONCISE_CITY_COUNCIL_LEGISLATIVE_ACTION_SUMMARY:`

const legislationConciseHeadlineTemplate = `The following is a set of descriptions of documents related to a single legislative action taken a city council body. Write a concise and extremely compact headline (one sentence or less) for the action, which is titled "<<title>>". Capture only the most salient detail or two:

"{text}"

CONCISE_COMPACT_HEADLINE:`

package driving

import "context"

// PruneService removes data past its useful life.
type PruneService interface {
	// PruneMeetings deletes meetings dated more than the given number
	// of days ago, along with their documents, the actions and
	// documents of the legislation on their agendas, and all artifacts
	// keyed by the deleted rows. Legislation rows themselves are kept;
	// they remain addressable by record number.
	PruneMeetings(ctx context.Context, days int) (*PruneStats, error)
}

// PruneStats summarises one prune pass.
type PruneStats struct {
	// Meetings counts deleted meeting rows.
	Meetings int

	// Actions counts deleted action rows.
	Actions int

	// Documents counts deleted document rows.
	Documents int
}

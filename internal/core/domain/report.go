package domain

// IndexReport summarises one indexing run.
type IndexReport struct {
	// Added counts documents indexed for the first time.
	Added int

	// Updated counts documents re-indexed because their fingerprint changed.
	Updated int

	// Unchanged counts documents skipped because their fingerprint matched.
	Unchanged int

	// Pruned counts documents removed because their source no longer has them.
	Pruned int

	// Skipped lists items adapters could not read.
	Skipped []ItemFailure

	// Failed lists documents whose upsert was rejected.
	Failed []DocumentFailure

	// SourceErrors lists sources that produced nothing.
	SourceErrors []error
}

// DocumentFailure records a document the index rejected.
type DocumentFailure struct {
	ID  string
	Err error
}

// Merge adds the counters and failures of other into r.
func (r *IndexReport) Merge(other IndexReport) {
	r.Added += other.Added
	r.Updated += other.Updated
	r.Unchanged += other.Unchanged
	r.Pruned += other.Pruned
	r.Skipped = append(r.Skipped, other.Skipped...)
	r.Failed = append(r.Failed, other.Failed...)
	r.SourceErrors = append(r.SourceErrors, other.SourceErrors...)
}

package patient

import (
	"errors"
	"fmt"
	"sort"

	"fjacquet/session-payments/internal/logging"
	"fjacquet/session-payments/internal/matcher"
	"fjacquet/session-payments/internal/models"
	"fjacquet/session-payments/internal/textutils"
)

const (
	// DefaultFloor is the minimum similarity for a roster entry to be offered.
	DefaultFloor = 50.0
	// DefaultMaxCandidates caps the list handed to the operator.
	DefaultMaxCandidates = 5
)

// ErrInvalidChoice is returned when the operator's answer does not designate
// one of the offered candidates or a usable new patient.
var ErrInvalidChoice = errors.New("invalid operator choice")

// Candidate is a roster entry offered to the operator.
type Candidate struct {
	Record models.PatientRecord
	Score  float64
	// Index is the entry's position in the roster.
	Index int
}

// ChoiceKind tells what the operator decided.
type ChoiceKind int

const (
	// ChoiceSelect picks one of the offered candidates.
	ChoiceSelect ChoiceKind = iota
	// ChoiceNew supplies a patient to add to the roster.
	ChoiceNew
	// ChoiceSkip drops the transaction.
	ChoiceSkip
)

func (k ChoiceKind) String() string {
	switch k {
	case ChoiceSelect:
		return "select"
	case ChoiceNew:
		return "new"
	case ChoiceSkip:
		return "skip"
	default:
		return fmt.Sprintf("ChoiceKind(%d)", int(k))
	}
}

// Choice is the operator's answer. Index is meaningful for ChoiceSelect and
// points into the candidate list; Record for ChoiceNew.
type Choice struct {
	Kind   ChoiceKind
	Index  int
	Record models.PatientRecord
}

// Select picks candidate i.
func Select(i int) Choice { return Choice{Kind: ChoiceSelect, Index: i} }

// NewPatient supplies a patient to add to the roster.
func NewPatient(rec models.PatientRecord) Choice { return Choice{Kind: ChoiceNew, Record: rec} }

// Skip drops the transaction.
func Skip() Choice { return Choice{Kind: ChoiceSkip} }

// Chooser asks an operator to settle an ambiguous name. query is the name
// searched for and context the raw concept it came from. candidates may be
// empty; creating a patient and skipping must stay available.
type Chooser interface {
	Choose(query, context string, candidates []Candidate) (Choice, error)
}

// IdentifierAsker asks an operator for the identifier of a patient about to be
// added under name.
type IdentifierAsker interface {
	AskIdentifier(name string) (string, error)
}

// Outcome is the tri-state result of a resolution.
type Outcome int

const (
	// Resolved means a patient was settled on.
	Resolved Outcome = iota
	// NeedsOperator means the name could not be settled without a human.
	NeedsOperator
	// Skipped means the operator dropped the transaction.
	Skipped
)

func (o Outcome) String() string {
	switch o {
	case Resolved:
		return "resolved"
	case NeedsOperator:
		return "needs-operator"
	case Skipped:
		return "skipped"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

// MatchResult carries the outcome of a lookup or a resolution.
type MatchResult struct {
	Outcome Outcome
	Patient models.PatientRecord
	// Candidates are the entries that were offered, best first.
	Candidates []Candidate
	// Created is set when Patient was appended to the roster.
	Created bool
}

// Resolver maps names to roster entries.
type Resolver struct {
	roster        *Roster
	chooser       Chooser
	floor         float64
	maxCandidates int
	logger        logging.Logger
}

// NewResolver creates a resolver over roster that escalates to chooser.
// A floor outside (0, 100] or a non-positive maxCandidates selects the default.
func NewResolver(roster *Roster, chooser Chooser, floor float64, maxCandidates int, logger logging.Logger) *Resolver {
	if roster == nil {
		roster = NewRoster(nil)
	}
	if floor <= 0 || floor > 100 {
		floor = DefaultFloor
	}
	if maxCandidates <= 0 {
		maxCandidates = DefaultMaxCandidates
	}
	if logger == nil {
		logger = logging.Discard()
	}
	return &Resolver{
		roster:        roster,
		chooser:       chooser,
		floor:         floor,
		maxCandidates: maxCandidates,
		logger:        logger,
	}
}

// Roster returns the roster the resolver reads and appends to.
func (r *Resolver) Roster() *Roster {
	return r.roster
}

// FindExact returns the first roster entry whose normalized name equals the
// normalized query.
func (r *Resolver) FindExact(name string) (models.PatientRecord, bool) {
	return r.roster.FindExact(name)
}

// Candidates scores every roster entry against name and returns those at or
// above the floor, best first, capped at the configured maximum. Entries with
// equal scores keep roster order.
func (r *Resolver) Candidates(name string) []Candidate {
	query := textutils.Normalize(name)

	candidates := []Candidate{}
	for i, rec := range r.roster.records {
		score := matcher.Ratio(query, textutils.Normalize(rec.FullName))
		if score >= r.floor {
			candidates = append(candidates, Candidate{Record: rec, Score: score, Index: i})
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})
	if len(candidates) > r.maxCandidates {
		candidates = candidates[:r.maxCandidates]
	}
	return candidates
}

// Lookup ranks the roster for name without asking anyone. The outcome is
// always NeedsOperator: a candidate list is evidence, never a decision.
func (r *Resolver) Lookup(name string) MatchResult {
	return MatchResult{Outcome: NeedsOperator, Candidates: r.Candidates(name)}
}

// SearchApprox ranks the roster for name and lets the chooser decide, even
// when no entry reaches the floor. A new patient is appended to the roster
// before returning. Errors come only from the chooser or from an answer that
// designates nothing.
func (r *Resolver) SearchApprox(name, context string) (MatchResult, error) {
	if r.chooser == nil {
		return MatchResult{}, errors.New("no chooser configured")
	}

	result := r.Lookup(name)
	r.logger.Debug("Escalating to operator",
		logging.F(logging.FieldQuery, name),
		logging.F(logging.FieldCandidates, len(result.Candidates)))

	choice, err := r.chooser.Choose(name, context, result.Candidates)
	if err != nil {
		return MatchResult{}, err
	}
	return r.apply(choice, result.Candidates)
}

func (r *Resolver) apply(choice Choice, candidates []Candidate) (MatchResult, error) {
	switch choice.Kind {
	case ChoiceSelect:
		if choice.Index < 0 || choice.Index >= len(candidates) {
			return MatchResult{}, fmt.Errorf("%w: index %d with %d candidates", ErrInvalidChoice, choice.Index, len(candidates))
		}
		selected := candidates[choice.Index]
		r.logger.Info("Patient selected",
			logging.F(logging.FieldPatient, selected.Record.FullName),
			logging.F(logging.FieldScore, selected.Score))
		return MatchResult{Outcome: Resolved, Patient: selected.Record, Candidates: candidates}, nil

	case ChoiceNew:
		if choice.Record.FullName == "" {
			return MatchResult{}, fmt.Errorf("%w: new patient without a name", ErrInvalidChoice)
		}
		r.Register(choice.Record)
		return MatchResult{Outcome: Resolved, Patient: choice.Record, Candidates: candidates, Created: true}, nil

	case ChoiceSkip:
		r.logger.Info("Transaction skipped by operator")
		return MatchResult{Outcome: Skipped, Candidates: candidates}, nil

	default:
		return MatchResult{}, fmt.Errorf("%w: %s", ErrInvalidChoice, choice.Kind)
	}
}

// Register appends rec to the roster so later lookups in the run see it.
func (r *Resolver) Register(rec models.PatientRecord) {
	r.roster.Append(rec)
	r.logger.Info("Patient added",
		logging.F(logging.FieldPatient, rec.FullName),
		logging.F(logging.FieldPatientID, rec.IDNumber))
}

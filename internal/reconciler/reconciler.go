// Package reconciler attributes the billable movements of a statement to
// patients of the roster, asking the operator when the evidence is unclear.
package reconciler

import (
	"errors"
	"fmt"
	"strings"

	"fjacquet/session-payments/internal/conceptparser"
	"fjacquet/session-payments/internal/logging"
	"fjacquet/session-payments/internal/matcher"
	"fjacquet/session-payments/internal/models"
	"fjacquet/session-payments/internal/parsererror"
	"fjacquet/session-payments/internal/patient"

	"github.com/shopspring/decimal"
)

// NameExtractor finds dictionary names in a transfer note.
type NameExtractor interface {
	ExtractNames(note string) matcher.CandidateNames
}

// Summary counts what happened to the transactions of a run.
type Summary struct {
	Total int
	// Matched transactions were attributed to an existing roster entry.
	Matched int
	// Created transactions led to a new roster entry.
	Created int
	// Escalated transactions were handed to the operator.
	Escalated int
	Skipped   int
}

// Reconciled is the number of transactions that produced a payment.
func (s Summary) Reconciled() int {
	return s.Matched + s.Created
}

// Reconciler runs the per-transaction attribution flow.
type Reconciler struct {
	extractor NameExtractor
	resolver  *patient.Resolver
	asker     patient.IdentifierAsker
	store     patient.Store
	unitPrice decimal.Decimal
	persist   bool
	logger    logging.Logger
}

// Options configure a Reconciler.
type Options struct {
	// UnitPrice is the price of one session.
	UnitPrice decimal.Decimal
	// PersistOnAppend saves the roster to the store after every new patient.
	PersistOnAppend bool
}

// New creates a Reconciler. store may be nil when the roster is not to be
// saved.
func New(extractor NameExtractor, resolver *patient.Resolver, asker patient.IdentifierAsker,
	store patient.Store, opts Options, logger logging.Logger) *Reconciler {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Reconciler{
		extractor: extractor,
		resolver:  resolver,
		asker:     asker,
		store:     store,
		unitPrice: opts.UnitPrice,
		persist:   opts.PersistOnAppend,
		logger:    logger,
	}
}

// Run attributes every transaction in order. Transactions the operator skips
// produce no payment. The first operator or storage error aborts the run; the
// payments reconciled so far are returned with it.
func (r *Reconciler) Run(txs []models.Transaction) ([]models.ReconciledPayment, Summary, error) {
	summary := Summary{Total: len(txs)}
	payments := make([]models.ReconciledPayment, 0, len(txs))

	for i, tx := range txs {
		txLogger := r.logger.WithFields(
			logging.F(logging.FieldRow, i+1),
			logging.F(logging.FieldConcept, tx.Concept))

		rec, outcome, err := r.resolve(tx, txLogger)
		if err != nil {
			return payments, summary, err
		}

		switch outcome {
		case outcomeSkipped:
			summary.Escalated++
			summary.Skipped++
			continue
		case outcomeMatched:
			summary.Matched++
		case outcomeEscalatedMatched:
			summary.Escalated++
			summary.Matched++
		case outcomeCreated:
			summary.Created++
		case outcomeEscalatedCreated:
			summary.Escalated++
			summary.Created++
		}

		payment := models.NewReconciledPayment(rec, tx, r.unitPrice)
		payments = append(payments, payment)
		txLogger.Debug("Payment reconciled",
			logging.F(logging.FieldPatient, payment.FullName),
			logging.F(logging.FieldSessions, payment.Sessions))
	}

	r.logger.Info("Reconciliation finished",
		logging.F("total", summary.Total),
		logging.F("matched", summary.Matched),
		logging.F("created", summary.Created),
		logging.F("escalated", summary.Escalated),
		logging.F("skipped", summary.Skipped))
	return payments, summary, nil
}

type outcome int

const (
	outcomeMatched outcome = iota
	outcomeCreated
	outcomeEscalatedMatched
	outcomeEscalatedCreated
	outcomeSkipped
)

func (r *Reconciler) resolve(tx models.Transaction, logger logging.Logger) (models.PatientRecord, outcome, error) {
	parsed, _ := conceptparser.Parse(tx.Concept)

	names := matcher.CandidateNames{}
	if parsed.HasNote && r.extractor != nil {
		names = r.extractor.ExtractNames(parsed.Note)
	}
	consistent, _ := matcher.PayerAndConceptMatch(parsed.PayerNormalized, names)

	if consistent && parsed.PayerOriginal != "" {
		if rec, ok := r.resolver.FindExact(parsed.PayerOriginal); ok {
			logger.Info("Patient found",
				logging.F(logging.FieldPatient, rec.FullName),
				logging.F(logging.FieldPatientID, rec.IDNumber))
			return rec, outcomeMatched, nil
		}
		rec, err := r.addPayer(parsed.PayerOriginal, tx.Concept)
		if err != nil {
			return models.PatientRecord{}, 0, err
		}
		return rec, outcomeCreated, nil
	}

	query := names.Query()
	if query == "" {
		query = parsed.PayerOriginal
	}
	if query == "" {
		query = strings.TrimSpace(tx.Concept)
	}
	logger.Info("Unclear match, asking operator",
		logging.F(logging.FieldPayer, parsed.PayerOriginal),
		logging.F(logging.FieldNames, names.Query()),
		logging.F(logging.FieldQuery, query))

	result, err := r.resolver.SearchApprox(query, tx.Concept)
	if err != nil {
		return models.PatientRecord{}, 0, &parsererror.ResolutionError{Concept: tx.Concept, Query: query, Err: err}
	}
	switch result.Outcome {
	case patient.Skipped:
		return models.PatientRecord{}, outcomeSkipped, nil
	case patient.Resolved:
		if result.Created {
			if err := r.save(); err != nil {
				return models.PatientRecord{}, 0, err
			}
			return result.Patient, outcomeEscalatedCreated, nil
		}
		return result.Patient, outcomeEscalatedMatched, nil
	default:
		return models.PatientRecord{}, 0, &parsererror.ResolutionError{
			Concept: tx.Concept,
			Query:   query,
			Err:     fmt.Errorf("unexpected outcome %s", result.Outcome),
		}
	}
}

// addPayer registers the declared payer as a new patient after asking the
// operator for the identifier.
func (r *Reconciler) addPayer(name, concept string) (models.PatientRecord, error) {
	if r.asker == nil {
		return models.PatientRecord{}, &parsererror.ResolutionError{
			Concept: concept,
			Query:   name,
			Err:     errors.New("no identifier asker configured"),
		}
	}
	id, err := r.asker.AskIdentifier(name)
	if err != nil {
		return models.PatientRecord{}, &parsererror.ResolutionError{Concept: concept, Query: name, Err: err}
	}

	rec := models.PatientRecord{FullName: name, IDNumber: id}
	r.resolver.Register(rec)
	if err := r.save(); err != nil {
		return models.PatientRecord{}, err
	}
	return rec, nil
}

func (r *Reconciler) save() error {
	if !r.persist || r.store == nil {
		return nil
	}
	if err := r.store.Save(r.resolver.Roster().All()); err != nil {
		return fmt.Errorf("failed to save patient roster: %w", err)
	}
	return nil
}

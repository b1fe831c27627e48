package expense

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/lucasvieira/reembolso/internal/scanning"
)

// IDGenerator generates unique IDs for sessions and records
type IDGenerator interface {
	Generate() string
}

// TimeSource provides the current time
type TimeSource interface {
	Now() time.Time
}

type uuidGenerator struct{}

func (uuidGenerator) Generate() string {
	return uuid.NewString()
}

type defaultTimeSource struct{}

func (defaultTimeSource) Now() time.Time {
	return time.Now()
}

// Renderer turns a payee profile and confirmed expenses into the report PDF
type Renderer interface {
	// Single renders the one-item report with the signature block
	Single(profile PayeeProfile, record ExpenseRecord, generatedAt time.Time) ([]byte, error)
	// Multi renders the consolidated report covering all records
	Multi(profile PayeeProfile, records []ExpenseRecord, generatedAt time.Time) ([]byte, error)
}

// Service handles the expense collection and report generation workflow
type Service struct {
	store    Store
	scanner  scanning.Scanner // default extractor; nil in the single-receipt variant
	renderer Renderer
	archive  Archive // optional report archive
	idGen    IDGenerator
	clock    TimeSource
}

// NewService creates a new Service with default ID generator and time source
func NewService(store Store, scanner scanning.Scanner, renderer Renderer, archive Archive) *Service {
	return NewServiceWithDeps(store, scanner, renderer, archive, uuidGenerator{}, defaultTimeSource{})
}

// NewServiceWithDeps creates a new Service with custom dependencies for testing
func NewServiceWithDeps(store Store, scanner scanning.Scanner, renderer Renderer, archive Archive, idGen IDGenerator, clock TimeSource) *Service {
	return &Service{
		store:    store,
		scanner:  scanner,
		renderer: renderer,
		archive:  archive,
		idGen:    idGen,
		clock:    clock,
	}
}

// EnsureSession loads the session for id, creating a fresh one when id is
// empty or unknown. The returned session is always persisted.
func (s *Service) EnsureSession(id string) (*Session, error) {
	if id != "" {
		session, err := s.store.GetSession(id)
		if err == nil {
			return session, nil
		}
	}

	now := s.clock.Now()
	session := &Session{
		ID:        s.idGen.Generate(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.SaveSession(session); err != nil {
		return nil, fmt.Errorf("saving new session: %w", err)
	}
	return session, nil
}

// Session loads an existing session
func (s *Service) Session(id string) (*Session, error) {
	return s.store.GetSession(id)
}

// SetProfile stores the payee profile for a session. The profile is locked
// once a report has been generated for the session.
func (s *Service) SetProfile(sessionID string, profile PayeeProfile) error {
	if err := profile.Validate(); err != nil {
		return err
	}

	session, err := s.store.GetSession(sessionID)
	if err != nil {
		return err
	}
	if session.ReportGenerated {
		return ErrProfileLocked
	}

	session.Profile = &profile
	session.UpdatedAt = s.clock.Now()
	if err := s.store.SaveSession(session); err != nil {
		return fmt.Errorf("saving session: %w", err)
	}
	return nil
}

// Analyze runs the extractor over a receipt photo and parks the result in the
// session for confirmation (single-receipt flow). On any extraction failure
// the session is left unchanged and the user may resubmit the photo.
func (s *Service) Analyze(sessionID string, scanner scanning.Scanner, image []byte, contentType string) (*scanning.ExtractionResult, error) {
	session, err := s.store.GetSession(sessionID)
	if err != nil {
		return nil, err
	}

	pngData, err := scanning.NormalizeToPNG(image, contentType)
	if err != nil {
		return nil, fmt.Errorf("preparing image: %w", err)
	}

	result, err := scanner.ExtractReceipt(pngData, "image/png")
	if err != nil {
		slog.Error("Failed to extract receipt fields",
			"session", sessionID,
			"content_type", contentType,
			"file_size", len(image),
			"error", err,
		)
		return nil, fmt.Errorf("scanning receipt: %w", err)
	}

	session.Pending = result
	session.PendingImage = pngData
	session.UpdatedAt = s.clock.Now()
	if err := s.store.SaveSession(session); err != nil {
		return nil, fmt.Errorf("saving session: %w", err)
	}
	return result, nil
}

// Confirm turns the pending extraction into a confirmed record using the
// user-edited fields. The receipt image is the one analyzed; the fields are
// whatever the user settled on.
func (s *Service) Confirm(sessionID string, category Category, location, date, timeOfDay string, amountCents int) (*ExpenseRecord, error) {
	if !category.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidCategory, category)
	}
	if amountCents < 0 {
		return nil, ErrInvalidAmount
	}

	session, err := s.store.GetSession(sessionID)
	if err != nil {
		return nil, err
	}
	if session.Pending == nil {
		return nil, ErrNothingPending
	}

	now := s.clock.Now()
	record := ExpenseRecord{
		ID:          s.idGen.Generate(),
		Category:    category,
		Location:    location,
		Date:        date,
		Time:        timeOfDay,
		AmountCents: amountCents,
		Image:       session.PendingImage,
		CreatedAt:   now,
	}

	session.Ledger.Append(record)
	session.Pending = nil
	session.PendingImage = nil
	session.UpdatedAt = now
	if err := s.store.SaveSession(session); err != nil {
		return nil, fmt.Errorf("saving session: %w", err)
	}
	return &record, nil
}

// AddExpense extracts fields from a receipt photo with the default scanner
// and appends the record to the session ledger (multi-receipt flow). Records
// are never edited after this point.
func (s *Service) AddExpense(sessionID string, category Category, image []byte, contentType string) (*ExpenseRecord, error) {
	if !category.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidCategory, category)
	}

	session, err := s.store.GetSession(sessionID)
	if err != nil {
		return nil, err
	}

	pngData, err := scanning.NormalizeToPNG(image, contentType)
	if err != nil {
		return nil, fmt.Errorf("preparing image: %w", err)
	}

	result, err := s.scanner.ExtractReceipt(pngData, "image/png")
	if err != nil {
		slog.Error("Failed to extract receipt fields",
			"session", sessionID,
			"content_type", contentType,
			"file_size", len(image),
			"error", err,
		)
		return nil, fmt.Errorf("scanning receipt: %w", err)
	}

	now := s.clock.Now()
	record := ExpenseRecord{
		ID:          s.idGen.Generate(),
		Category:    category,
		Location:    result.Location,
		Date:        result.Date,
		Time:        result.Time,
		AmountCents: result.AmountCents,
		Image:       pngData,
		CreatedAt:   now,
	}

	session.Ledger.Append(record)
	session.UpdatedAt = now
	if err := s.store.SaveSession(session); err != nil {
		return nil, fmt.Errorf("saving session: %w", err)
	}
	return &record, nil
}

// Expenses returns the session ledger in insertion order
func (s *Service) Expenses(sessionID string) ([]ExpenseRecord, error) {
	session, err := s.store.GetSession(sessionID)
	if err != nil {
		return nil, err
	}
	return session.Ledger.List(), nil
}

// GenerateReport renders the report for a session. Consolidated reports cover
// the whole ledger; otherwise the most recent record is rendered with the
// signature block. A render failure returns no bytes and leaves the ledger
// intact so the user can retry.
func (s *Service) GenerateReport(sessionID string, consolidated bool) ([]byte, error) {
	session, err := s.store.GetSession(sessionID)
	if err != nil {
		return nil, err
	}
	if session.Profile == nil {
		return nil, ErrNoProfile
	}
	records := session.Ledger.List()
	if len(records) == 0 {
		return nil, ErrNoExpenses
	}

	now := s.clock.Now()
	var pdfData []byte
	if consolidated {
		pdfData, err = s.renderer.Multi(*session.Profile, records, now)
	} else {
		pdfData, err = s.renderer.Single(*session.Profile, records[len(records)-1], now)
	}
	if err != nil {
		return nil, fmt.Errorf("rendering report: %w", err)
	}

	if s.archive != nil {
		name := fmt.Sprintf("reembolso-%s-%s.pdf", now.Format("20060102-150405"), shortID(session.ID))
		if _, err := s.archive.Save(name, pdfData); err != nil {
			// The user still gets their download; the archive copy is best effort
			slog.Warn("Failed to archive report", "name", name, "error", err)
		}
	}

	session.ReportGenerated = true
	session.UpdatedAt = now
	if err := s.store.SaveSession(session); err != nil {
		return nil, fmt.Errorf("saving session: %w", err)
	}
	return pdfData, nil
}

// ArchivedReports lists archived report names
func (s *Service) ArchivedReports() ([]string, error) {
	if s.archive == nil {
		return nil, nil
	}
	return s.archive.List()
}

// ArchivedReport fetches an archived report by name
func (s *Service) ArchivedReport(name string) ([]byte, error) {
	if s.archive == nil {
		return nil, fmt.Errorf("no report archive configured")
	}
	return s.archive.Get(name)
}

// EndSession destroys a session and everything it owns
func (s *Service) EndSession(sessionID string) error {
	return s.store.DeleteSession(sessionID)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

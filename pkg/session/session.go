// Package session implements the admin console state machine: the single
// product selection, the create-mode facet composition, and the ordered
// upload queue with its fail-fast batch submission.
//
// A session is either idle (create mode: the operator is composing a new
// product) or editing (locked to one existing product). All state lives
// behind one mutex so the selection, the form, and the queue always
// mutate under a single writer.
package session

import (
	"context"
	"io"
	"os"
	"sync"

	"github.com/google/uuid"

	"github.com/stylerack/stylerack/pkg/catalog"
	"github.com/stylerack/stylerack/pkg/errors"
	"github.com/stylerack/stylerack/pkg/logging"
)

// Uploader sends one file into a remote directory.
type Uploader interface {
	Upload(ctx context.Context, folder, filename string, r io.Reader) error
}

// Remover deletes one remote file by full path.
type Remover interface {
	Delete(ctx context.Context, fullPath string) error
}

// Session is the admin console state machine.
type Session struct {
	mu sync.Mutex

	// baseDir is the remote gallery root new product folders are created
	// under.
	baseDir string

	// clearQueueOnSelect switches between the two observed admin flows:
	// when true, selecting a product discards the staged queue.
	clearQueueOnSelect bool

	selected *catalog.Product

	// Create-mode new product descriptor.
	name     string
	price    int
	hasPrice bool
	create   map[catalog.Facet]*catalog.FacetSet

	queue     []*Entry
	uploading bool
}

// Option configures a Session.
type Option func(*Session)

// WithClearQueueOnSelect makes Select discard the staged upload queue,
// matching the simpler observed admin variant. The default keeps the queue.
func WithClearQueueOnSelect(clear bool) Option {
	return func(s *Session) { s.clearQueueOnSelect = clear }
}

// New creates an idle session. New product folders are created under
// baseDir on the remote host.
func New(baseDir string, opts ...Option) *Session {
	s := &Session{
		baseDir: baseDir,
		create:  newCreateSets(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func newCreateSets() map[catalog.Facet]*catalog.FacetSet {
	m := make(map[catalog.Facet]*catalog.FacetSet, 4)
	for _, f := range catalog.Facets() {
		m[f] = catalog.NewFacetSet()
	}
	return m
}

// Selected returns the product locked for editing, or nil when idle.
func (s *Session) Selected() *catalog.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selected
}

// Editing reports whether a product is locked for editing.
func (s *Session) Editing() bool {
	return s.Selected() != nil
}

// Select locks the session to an existing product. The create-mode facet
// selection is discarded and the form fields take the product's values.
func (s *Session) Select(p *catalog.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.selected = p
	s.name = p.Name
	s.price = p.Price
	s.hasPrice = true
	s.create = newCreateSets()
	if s.clearQueueOnSelect {
		s.queue = nil
	}
}

// ClearSelection returns the session to idle create mode, discarding the
// create-mode facet selection and the upload queue.
func (s *Session) ClearSelection() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clearSelectionLocked()
}

func (s *Session) clearSelectionLocked() {
	s.selected = nil
	s.name = ""
	s.price = 0
	s.hasPrice = false
	s.create = newCreateSets()
	s.queue = nil
}

// SetName sets the new product's display name. The field is locked while
// editing an existing product.
func (s *Session) SetName(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.selected != nil {
		return errors.NewValidationError("name", name, "form is locked while a product is selected")
	}
	s.name = name
	return nil
}

// SetPrice sets the new product's price. The field is locked while editing.
func (s *Session) SetPrice(price int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.selected != nil {
		return errors.NewValidationError("price", price, "form is locked while a product is selected")
	}
	s.price = price
	s.hasPrice = true
	return nil
}

// ToggleFacet flips a facet value in the create-mode selection and reports
// whether it is selected afterwards. Ignored while editing: the facet
// inputs are disabled in that state.
func (s *Session) ToggleFacet(f catalog.Facet, value string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.selected != nil {
		return false
	}
	set := s.create[f]
	if set.Has(value) {
		set.Remove(value)
		return false
	}
	set.Add(value)
	return true
}

// AddAdHocTag inserts a freshly typed facet value into the shared pool and
// selects it for the product being composed. Permitted only when idle.
// The value is validated against the folder-name format up front so an
// unrepresentable tag is rejected before it can reach an encode.
func (s *Session) AddAdHocTag(pool *catalog.Pool, f catalog.Facet, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.selected != nil {
		return errors.NewValidationError(string(f), value, "new tags cannot be added while a product is selected")
	}
	if _, err := catalog.EncodeFolderName("probe", 0, []string{value}, []string{value}, []string{value}, []string{value}); err != nil {
		return err
	}

	pool.Add(f, value)
	s.create[f].Add(value)
	return nil
}

// CreateSelection returns the create-mode values chosen for one category,
// in selection order.
func (s *Session) CreateSelection(f catalog.Facet) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.create[f].Values()
}

// Enqueue stages local files for upload in Pending status. Permitted in
// any state: while editing, and while a batch is in flight (entries staged
// mid-batch stay Pending and join the next submission). After every append
// the queue is re-sorted by numeric-aware filename collation, overriding
// any earlier manual reorder.
func (s *Session) Enqueue(paths ...string) error {
	staged := make([]*Entry, 0, len(paths))
	for _, path := range paths {
		e, err := stageFile(path)
		if err != nil {
			return err
		}
		staged = append(staged, e)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.queue = append(s.queue, staged...)
	sortQueue(s.queue)
	return nil
}

// Reorder moves one queue entry from one position to another. The manual
// order holds until the next append re-sorts the queue. Not permitted
// while a batch is in flight.
func (s *Session) Reorder(from, to int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.uploading {
		return errors.ErrUploadInFlight
	}
	if from < 0 || from >= len(s.queue) || to < 0 || to >= len(s.queue) {
		return errors.NewValidationError("index", from, "queue index out of range")
	}

	e := s.queue[from]
	s.queue = append(s.queue[:from], s.queue[from+1:]...)
	s.queue = append(s.queue[:to], append([]*Entry{e}, s.queue[to:]...)...)
	return nil
}

// Remove drops one queue entry. Not permitted while a batch is in flight.
func (s *Session) Remove(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.uploading {
		return errors.ErrUploadInFlight
	}
	if index < 0 || index >= len(s.queue) {
		return errors.NewValidationError("index", index, "queue index out of range")
	}
	s.queue = append(s.queue[:index], s.queue[index+1:]...)
	return nil
}

// ClearQueue empties the queue unconditionally.
func (s *Session) ClearQueue() {
	s.mu.Lock()
	s.queue = nil
	s.mu.Unlock()
}

// Entries returns a snapshot of the queue in order.
func (s *Session) Entries() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Entry, len(s.queue))
	for i, e := range s.queue {
		out[i] = *e
	}
	return out
}

// QueueLen returns the number of staged entries.
func (s *Session) QueueLen() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.queue)
}

// Uploading reports whether a batch is in flight.
func (s *Session) Uploading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.uploading
}

// SubmitResult summarizes one batch submission.
type SubmitResult struct {
	// BatchID tags the batch in logs and results.
	BatchID string `json:"batch_id"`

	// Folder is the remote directory the batch targeted.
	Folder string `json:"folder"`

	Attempted int `json:"attempted"`
	Succeeded int `json:"succeeded"`
	Failed    int `json:"failed"`

	// Remaining counts entries left Pending after a halted batch.
	Remaining int `json:"remaining"`
}

// Submit validates the batch target and uploads the queue strictly in
// order, one request in flight at a time. The first failure halts the
// batch: remaining entries stay Pending and are never attempted, so the
// operator can diagnose before burning more requests. Completed uploads
// are kept (no rollback). Entries keep their final statuses for
// inspection; only a fully successful batch clears its entries from the
// queue, and entries staged while the batch ran are kept either way.
//
// In editing mode the target is the selected product's directory. When
// idle, the new-product descriptor must be complete: name, price, and at
// least one value in every facet category. Validation failures return a
// ValidationError before any network call.
func (s *Session) Submit(ctx context.Context, up Uploader) (*SubmitResult, error) {
	s.mu.Lock()
	if s.uploading {
		s.mu.Unlock()
		return nil, errors.ErrUploadInFlight
	}
	if len(s.queue) == 0 {
		s.mu.Unlock()
		return nil, errors.NewValidationError("queue", nil, "no files staged for upload")
	}

	folder, err := s.targetFolderLocked()
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}

	batch := make([]*Entry, len(s.queue))
	copy(batch, s.queue)
	s.uploading = true
	s.mu.Unlock()

	result := &SubmitResult{
		BatchID: uuid.NewString(),
		Folder:  folder,
	}
	ctx = logging.WithBatch(ctx, result.BatchID)
	log := logging.Ctx(ctx).With().
		Str("folder", folder).
		Logger()
	log.Info().Int("entries", len(batch)).Msg("starting upload batch")

	var firstErr error
	for _, e := range batch {
		if firstErr != nil {
			result.Remaining++
			continue
		}

		s.setStatus(e, StatusUploading, nil)
		result.Attempted++

		err := uploadEntry(ctx, up, folder, e)
		if err != nil {
			s.setStatus(e, StatusFailed, err)
			result.Failed++
			firstErr = errors.NewUploadError(e.Name, folder, err)
			log.Error().Err(err).Str("file", e.Name).Msg("upload failed, halting batch")
			continue
		}
		s.setStatus(e, StatusSucceeded, nil)
		result.Succeeded++
		log.Debug().Str("file", e.Name).Msg("uploaded")
	}

	s.mu.Lock()
	s.uploading = false
	if firstErr == nil && result.Succeeded == len(batch) {
		s.dropEntriesLocked(batch)
	}
	s.mu.Unlock()

	log.Info().
		Int("succeeded", result.Succeeded).
		Int("failed", result.Failed).
		Int("remaining", result.Remaining).
		Msg("upload batch finished")
	return result, firstErr
}

// dropEntriesLocked removes the given batch entries from the queue,
// keeping anything staged after the batch snapshot was taken.
func (s *Session) dropEntriesLocked(batch []*Entry) {
	inBatch := make(map[*Entry]struct{}, len(batch))
	for _, e := range batch {
		inBatch[e] = struct{}{}
	}
	kept := s.queue[:0]
	for _, e := range s.queue {
		if _, ok := inBatch[e]; !ok {
			kept = append(kept, e)
		}
	}
	s.queue = kept
}

// targetFolderLocked resolves the batch target: the selected product's
// directory, or a freshly encoded folder under the gallery root.
func (s *Session) targetFolderLocked() (string, error) {
	if s.selected != nil {
		return s.selected.Path, nil
	}

	if !s.hasPrice {
		return "", errors.NewValidationError("price", nil, "price is required to create a product")
	}
	encoded, err := catalog.EncodeFolderName(
		s.name, s.price,
		s.create[catalog.FacetStyle].Values(),
		s.create[catalog.FacetTag].Values(),
		s.create[catalog.FacetSeason].Values(),
		s.create[catalog.FacetScene].Values(),
	)
	if err != nil {
		return "", err
	}
	if s.baseDir == "" {
		return encoded, nil
	}
	return s.baseDir + "/" + encoded, nil
}

// setStatus commits one entry's status transition before the next
// entry's network call may begin.
func (s *Session) setStatus(e *Entry, status Status, err error) {
	s.mu.Lock()
	e.Status = status
	e.Err = err
	s.mu.Unlock()
}

// uploadEntry opens the staged file and streams it to the host.
func uploadEntry(ctx context.Context, up Uploader, folder string, e *Entry) error {
	f, err := os.Open(e.Path)
	if err != nil {
		return errors.WrapIO("open", e.Path, err)
	}
	defer func() { _ = f.Close() }()
	return up.Upload(ctx, folder, e.Name, f)
}

// DeleteImage removes one remote image after an affirmative confirmation,
// then cascades the removal through the in-memory catalog without a
// re-fetch. If the deletion empties the owning product, the product
// leaves the catalog and the admin selection is cleared. A failed remote
// delete leaves all local state untouched.
func (s *Session) DeleteImage(ctx context.Context, rem Remover, cat *catalog.Catalog, imagePath string, confirmed bool) (*catalog.RemoveResult, error) {
	if !confirmed {
		return nil, errors.NewValidationError("confirm", imagePath, "deletion requires explicit confirmation")
	}

	if err := rem.Delete(ctx, imagePath); err != nil {
		return nil, err
	}

	result, err := cat.RemoveImage(imagePath)
	if err != nil {
		// Remote file gone but unknown locally; nothing to cascade.
		return nil, err
	}

	s.mu.Lock()
	if result.ProductRemoved && s.selected != nil && s.selected.Path == result.Product.Path {
		s.clearSelectionLocked()
	}
	s.mu.Unlock()

	ctx = logging.WithProduct(ctx, result.Product.Path)
	logging.Ctx(ctx).Info().
		Str("image", imagePath).
		Bool("product_removed", result.ProductRemoved).
		Msg("image deleted")
	return result, nil
}

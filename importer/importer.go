package importer

import (
	"casebook/logging"
	"casebook/storage"
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

const component = "importer"

var (
	ErrNoRequiredHeaders = errors.New("at least one required header must be given")
	ErrMissingHook       = errors.New("parse, validate and create hooks are required")
)

// Hooks are the per-entity steps of the row pipeline.
//
// Parse returns ok=false when the row cannot be turned into a record.
// Validate rejects parsed but invalid records. DuplicateCheck is optional;
// when it reports found, the row is counted as a duplicate of existingID.
// Create persists the record through q and returns false when nothing was
// written. A non-nil error or a panic from any hook fails only that row.
type Hooks[T any] struct {
	Parse          func(row Row) (record T, ok bool, err error)
	Validate       func(record T) bool
	Create         func(ctx context.Context, q storage.Querier, record T) (bool, error)
	DuplicateCheck func(ctx context.Context, q storage.Querier, record T) (existingID int64, found bool, err error)
}

type Option func(*settings)

type settings struct {
	logger logging.Logger
	reader Reader
	strict bool
	runID  func() string
}

func WithLogger(logger logging.Logger) Option {
	return func(s *settings) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithReader overrides the reader otherwise chosen from the file extension.
func WithReader(reader Reader) Option {
	return func(s *settings) {
		s.reader = reader
	}
}

// WithStrictDurability makes a failed commit move every success of the run
// to Failed, so the result never claims rows that were rolled back.
func WithStrictDurability() Option {
	return func(s *settings) {
		s.strict = true
	}
}

// Importer loads one entity type from tabular files into db.
//
// An Importer issues BEGIN/COMMIT/ROLLBACK on db and assumes exclusive use of
// it for the duration of one Import call.
type Importer[T any] struct {
	db     storage.Database
	entity string
	settings
}

func New[T any](db storage.Database, entityName string, opts ...Option) *Importer[T] {
	s := settings{
		logger: logging.Nop(),
		runID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(&s)
	}
	return &Importer[T]{db: db, entity: entityName, settings: s}
}

type rowOutcome int

const (
	rowUnknown rowOutcome = iota
	rowCreated
	rowUnparsable
	rowInvalid
	rowDuplicate
	rowNotCreated
)

// Import reads filePath and runs every row through hooks.
//
// A file that cannot be read is returned as an error. Missing required
// headers abort the run before any row with an empty Result and a nil error.
// Everything after that is reported through the Result.
//
// If no transaction can be begun the rows are written without one. If the
// commit fails the counters are kept unless WithStrictDurability is set;
// Result.Durable tells the two cases apart.
func (i *Importer[T]) Import(ctx context.Context, filePath string, requiredHeaders []string, hooks Hooks[T]) (result Result, err error) {
	if len(requiredHeaders) == 0 {
		return Result{}, ErrNoRequiredHeaders
	}
	if hooks.Parse == nil || hooks.Validate == nil || hooks.Create == nil {
		return Result{}, ErrMissingHook
	}

	run := i.runID()
	i.log(logging.LevelInfo, "import", run, filePath, fmt.Sprintf("starting %s import", i.entity))

	table, err := i.readerFor(filePath).Read(filePath)
	if err != nil {
		i.log(logging.LevelError, "read", run, err.Error(), "failed to read import file")
		return Result{}, fmt.Errorf("import %s from %s: %w", i.entity, filePath, err)
	}
	i.log(logging.LevelDebug, "read", run, fmt.Sprintf("rows=%d", len(table.Rows)), "read import file")

	result = newResult()
	if missing := table.MissingHeaders(requiredHeaders); len(missing) > 0 {
		for _, header := range missing {
			i.log(logging.LevelError, "validate_headers", run, header, "missing required header")
		}
		result.MissingHeaders = missing
		return result, nil
	}

	var tx storage.Tx
	defer func() {
		recovered := recover()
		if recovered == nil {
			return
		}
		if tx != nil {
			i.rollback(tx, run)
		}
		result.Errors = append(result.Errors, fmt.Sprintf("Import aborted: %v", recovered))
		err = nil
	}()

	var q storage.Querier = i.db
	tx, err = i.db.Begin(ctx)
	if err != nil {
		i.log(logging.LevelWarn, "transaction", run, err.Error(), "could not begin transaction, importing without atomicity")
		tx = nil
		err = nil
	} else {
		i.log(logging.LevelDebug, "transaction", run, "", "transaction started")
		q = tx
		result.Transactional = true
	}

	for index, row := range table.Rows {
		rowNumber := index + 1
		outcome, existingID, rowErr := applyRow(ctx, q, hooks, row)
		if rowErr != nil {
			result.Failed++
			result.Errors = append(result.Errors, fmt.Sprintf("Exception processing row %d: %v", rowNumber, rowErr))
			continue
		}

		switch outcome {
		case rowCreated:
			result.Success++
		case rowUnparsable:
			result.Failed++
			result.Errors = append(result.Errors, fmt.Sprintf("Failed to parse row %d", rowNumber))
		case rowInvalid:
			result.Failed++
			result.Errors = append(result.Errors, fmt.Sprintf("Validation failed for row %d", rowNumber))
		case rowDuplicate:
			result.Failed++
			result.Duplicates = append(result.Duplicates, Duplicate{
				ExistingID: existingID,
				Message:    fmt.Sprintf("Duplicate found for row %d", rowNumber),
			})
		case rowNotCreated:
			result.Failed++
			result.Errors = append(result.Errors, fmt.Sprintf("Database insertion failed for row %d", rowNumber))
		}
	}

	if tx != nil {
		// tx is cleared only once Commit has returned; while it is set the
		// deferred recover rolls it back.
		if commitErr := tx.Commit(); commitErr != nil {
			i.log(logging.LevelError, "transaction", run, commitErr.Error(), "commit failed")
			current := tx
			tx = nil
			i.rollback(current, run)
			if i.strict && result.Success > 0 {
				lost := result.Success
				result.Failed += lost
				result.Success = 0
				result.Errors = append(result.Errors, fmt.Sprintf("Commit failed, %d imported rows were not persisted: %v", lost, commitErr))
			}
		} else {
			tx = nil
			result.Committed = true
			i.log(logging.LevelDebug, "transaction", run, "", "transaction committed")
		}
	}

	i.log(logging.LevelInfo, "summary", run,
		fmt.Sprintf("success=%d failed=%d duplicates=%d", result.Success, result.Failed, len(result.Duplicates)),
		fmt.Sprintf("%s import finished", i.entity),
	)

	return result, nil
}

// ImportCount runs Import and returns only the number of rows created.
func (i *Importer[T]) ImportCount(ctx context.Context, filePath string, requiredHeaders []string, hooks Hooks[T]) (int, error) {
	result, err := i.Import(ctx, filePath, requiredHeaders, hooks)
	if err != nil {
		return 0, err
	}
	return result.Success, nil
}

// applyRow runs one row through the hooks. Hook errors and panics are
// returned as err.
func applyRow[T any](ctx context.Context, q storage.Querier, hooks Hooks[T], row Row) (outcome rowOutcome, existingID int64, err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			err = fmt.Errorf("%v", recovered)
		}
	}()

	record, ok, err := hooks.Parse(row)
	if err != nil {
		return 0, 0, err
	}
	if !ok {
		return rowUnparsable, 0, nil
	}

	if !hooks.Validate(record) {
		return rowInvalid, 0, nil
	}

	if hooks.DuplicateCheck != nil {
		id, found, err := hooks.DuplicateCheck(ctx, q, record)
		if err != nil {
			return 0, 0, err
		}
		if found {
			return rowDuplicate, id, nil
		}
	}

	created, err := hooks.Create(ctx, q, record)
	if err != nil {
		return 0, 0, err
	}
	if !created {
		return rowNotCreated, 0, nil
	}
	return rowCreated, 0, nil
}

func (i *Importer[T]) rollback(tx storage.Tx, run string) {
	if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		i.log(logging.LevelError, "transaction", run, err.Error(), "rollback failed")
		return
	}
	i.log(logging.LevelWarn, "transaction", run, "", "transaction rolled back")
}

func (i *Importer[T]) readerFor(path string) Reader {
	if i.reader != nil {
		return i.reader
	}
	format, err := InferFormat(path, "")
	if err != nil {
		return &CSVReader{}
	}
	reader, err := ReaderForFormat(format)
	if err != nil {
		return &CSVReader{}
	}
	return reader
}

func (i *Importer[T]) log(level logging.Level, operation, run, detail, msg string) {
	i.logger.Log(level, logging.Fields{
		Component:  component,
		Operation:  operation,
		Entity:     i.entity,
		Identifier: run,
		Detail:     detail,
	}, msg)
}

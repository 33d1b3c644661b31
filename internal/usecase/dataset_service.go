package usecase

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/riskibarqy/epl-insights/internal/domain/dataset"
	"github.com/riskibarqy/epl-insights/internal/domain/match"
	"github.com/riskibarqy/epl-insights/internal/platform/cache"
	"github.com/riskibarqy/epl-insights/internal/platform/id"
	"github.com/riskibarqy/epl-insights/internal/platform/logging"
)

// DatasetCodec parses and renders the CSV wire format.
type DatasetCodec interface {
	Parse(data []byte) ([]match.Record, error)
	ParseFile(path string) ([]match.Record, error)
	Export(records []match.Record) ([]byte, error)
}

// SourceFetcher downloads dataset bodies from remote URLs.
type SourceFetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

type ExportFile struct {
	Name string
	Data []byte
}

type DatasetService struct {
	repo    dataset.Repository
	archive dataset.ArchiveRepository
	codec   DatasetCodec
	fetcher SourceFetcher
	ids     id.Generator
	cache   *cache.Store
	pool    *ants.Pool
	logger  *logging.Logger
	now     func() time.Time
}

func NewDatasetService(
	repo dataset.Repository,
	archive dataset.ArchiveRepository,
	codec DatasetCodec,
	fetcher SourceFetcher,
	ids id.Generator,
	cacheStore *cache.Store,
	pool *ants.Pool,
	logger *logging.Logger,
) *DatasetService {
	if logger == nil {
		logger = logging.Default()
	}
	return &DatasetService{
		repo:    repo,
		archive: archive,
		codec:   codec,
		fetcher: fetcher,
		ids:     ids,
		cache:   cacheStore,
		pool:    pool,
		logger:  logger,
		now:     time.Now,
	}
}

// Bootstrap loads the default snapshot from a local CSV file. Missing path
// means the service starts empty and waits for uploads.
func (s *DatasetService) Bootstrap(ctx context.Context, path, name string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.DatasetService.Bootstrap")
	defer span.End()

	path = strings.TrimSpace(path)
	if path == "" {
		s.logger.InfoContext(ctx, "dataset bootstrap skipped", "reason", "no dataset path configured")
		return nil
	}

	records, err := s.codec.ParseFile(path)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrMalformedInput, err.Error())
	}

	snapshot := dataset.Snapshot{
		ID:         dataset.DefaultID,
		Name:       name,
		SourceKind: dataset.SourceFile,
		SourceRef:  path,
		LoadedAt:   s.now().UTC(),
		Records:    records,
	}
	if err := s.storeSnapshot(ctx, snapshot); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "dataset bootstrapped", "dataset_id", snapshot.ID, "path", path, "matches", len(records))
	return nil
}

// Upload creates a snapshot from a CSV body. Uploaded snapshots have no
// backing source and cannot be refreshed.
func (s *DatasetService) Upload(ctx context.Context, name string, data []byte) (dataset.Snapshot, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.DatasetService.Upload")
	defer span.End()

	if len(data) == 0 {
		return dataset.Snapshot{}, fmt.Errorf("%w: dataset body is required", ErrInvalidInput)
	}

	records, err := s.codec.Parse(data)
	if err != nil {
		return dataset.Snapshot{}, fmt.Errorf("%w: %s", ErrMalformedInput, err.Error())
	}

	snapshotID, err := s.newID()
	if err != nil {
		return dataset.Snapshot{}, err
	}

	snapshot := dataset.Snapshot{
		ID:         snapshotID,
		Name:       defaultName(name, "uploaded dataset"),
		SourceKind: dataset.SourceUpload,
		LoadedAt:   s.now().UTC(),
		Records:    records,
	}
	if err := s.storeSnapshot(ctx, snapshot); err != nil {
		return dataset.Snapshot{}, err
	}

	s.logger.InfoContext(ctx, "dataset uploaded", "dataset_id", snapshot.ID, "matches", len(records))
	return snapshot, nil
}

// FetchFromURL downloads a CSV and stores it as a refreshable snapshot.
func (s *DatasetService) FetchFromURL(ctx context.Context, name, rawURL string) (dataset.Snapshot, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.DatasetService.FetchFromURL")
	defer span.End()

	rawURL = strings.TrimSpace(rawURL)
	if err := validateSourceURL(rawURL); err != nil {
		return dataset.Snapshot{}, err
	}
	if s.fetcher == nil {
		return dataset.Snapshot{}, fmt.Errorf("%w: remote fetch is not configured", ErrDependencyUnavailable)
	}

	data, err := s.fetcher.Fetch(ctx, rawURL)
	if err != nil {
		return dataset.Snapshot{}, fmt.Errorf("fetch dataset: %w", err)
	}

	records, err := s.codec.Parse(data)
	if err != nil {
		return dataset.Snapshot{}, fmt.Errorf("%w: %s", ErrMalformedInput, err.Error())
	}

	snapshotID, err := s.newID()
	if err != nil {
		return dataset.Snapshot{}, err
	}

	snapshot := dataset.Snapshot{
		ID:         snapshotID,
		Name:       defaultName(name, "remote dataset"),
		SourceKind: dataset.SourceURL,
		SourceRef:  rawURL,
		LoadedAt:   s.now().UTC(),
		Records:    records,
	}
	if err := s.storeSnapshot(ctx, snapshot); err != nil {
		return dataset.Snapshot{}, err
	}

	s.logger.InfoContext(ctx, "dataset fetched", "dataset_id", snapshot.ID, "url", rawURL, "matches", len(records))
	return snapshot, nil
}

func (s *DatasetService) Get(ctx context.Context, snapshotID string) (dataset.Snapshot, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.DatasetService.Get")
	defer span.End()

	return loadSnapshot(ctx, s.repo, snapshotID)
}

func (s *DatasetService) List(ctx context.Context) ([]dataset.Snapshot, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.DatasetService.List")
	defer span.End()

	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list datasets: %w", err)
	}
	return items, nil
}

// Matches returns the filtered view of a snapshot in load order.
func (s *DatasetService) Matches(ctx context.Context, snapshotID string, filter Filter) ([]match.Record, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.DatasetService.Matches")
	defer span.End()

	if err := filter.Validate(); err != nil {
		return nil, err
	}
	snapshot, err := loadSnapshot(ctx, s.repo, snapshotID)
	if err != nil {
		return nil, err
	}
	return filter.Apply(snapshot.Records), nil
}

func (s *DatasetService) Delete(ctx context.Context, snapshotID string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.DatasetService.Delete")
	defer span.End()

	snapshot, err := loadSnapshot(ctx, s.repo, snapshotID)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, snapshot.ID); err != nil {
		return fmt.Errorf("delete dataset: %w", err)
	}
	s.invalidate(ctx, snapshot.ID)

	s.logger.InfoContext(ctx, "dataset deleted", "dataset_id", snapshot.ID)
	return nil
}

// Refresh re-reads a snapshot from its backing source and swaps the whole
// snapshot. Uploaded bodies have no source to go back to.
func (s *DatasetService) Refresh(ctx context.Context, snapshotID string) (dataset.Snapshot, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.DatasetService.Refresh")
	defer span.End()

	snapshot, err := loadSnapshot(ctx, s.repo, snapshotID)
	if err != nil {
		return dataset.Snapshot{}, err
	}
	if !snapshot.Refreshable() {
		return dataset.Snapshot{}, fmt.Errorf("%w: uploaded datasets cannot be refreshed", ErrInvalidInput)
	}

	var records []match.Record
	switch snapshot.SourceKind {
	case dataset.SourceFile:
		records, err = s.codec.ParseFile(snapshot.SourceRef)
		if err != nil {
			return dataset.Snapshot{}, fmt.Errorf("%w: %s", ErrMalformedInput, err.Error())
		}
	case dataset.SourceURL:
		if s.fetcher == nil {
			return dataset.Snapshot{}, fmt.Errorf("%w: remote fetch is not configured", ErrDependencyUnavailable)
		}
		data, fetchErr := s.fetcher.Fetch(ctx, snapshot.SourceRef)
		if fetchErr != nil {
			return dataset.Snapshot{}, fmt.Errorf("fetch dataset: %w", fetchErr)
		}
		records, err = s.codec.Parse(data)
		if err != nil {
			return dataset.Snapshot{}, fmt.Errorf("%w: %s", ErrMalformedInput, err.Error())
		}
	default:
		return dataset.Snapshot{}, fmt.Errorf("%w: unknown dataset source %q", ErrInvalidInput, snapshot.SourceKind)
	}

	snapshot.Records = records
	snapshot.LoadedAt = s.now().UTC()
	if err := s.storeSnapshot(ctx, snapshot); err != nil {
		return dataset.Snapshot{}, err
	}

	s.logger.InfoContext(ctx, "dataset refreshed", "dataset_id", snapshot.ID, "matches", len(records))
	return snapshot, nil
}

// Export renders the filtered view back to CSV with a derived total goals
// column appended.
func (s *DatasetService) Export(ctx context.Context, snapshotID string, filter Filter) (ExportFile, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.DatasetService.Export")
	defer span.End()

	records, err := s.Matches(ctx, snapshotID, filter)
	if err != nil {
		return ExportFile{}, err
	}

	data, err := s.codec.Export(records)
	if err != nil {
		return ExportFile{}, fmt.Errorf("export dataset: %w", err)
	}

	return ExportFile{
		Name: "epl_filtered_data_" + s.now().UTC().Format("20060102") + ".csv",
		Data: data,
	}, nil
}

func (s *DatasetService) ArchiveList(ctx context.Context) ([]dataset.Snapshot, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.DatasetService.ArchiveList")
	defer span.End()

	if s.archive == nil {
		return nil, fmt.Errorf("%w: archive is not configured", ErrDependencyUnavailable)
	}

	items, err := s.archive.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list archived datasets: %w", err)
	}
	return items, nil
}

// ArchiveRestore brings an archived snapshot back into the live store.
func (s *DatasetService) ArchiveRestore(ctx context.Context, snapshotID string) (dataset.Snapshot, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.DatasetService.ArchiveRestore")
	defer span.End()

	if s.archive == nil {
		return dataset.Snapshot{}, fmt.Errorf("%w: archive is not configured", ErrDependencyUnavailable)
	}
	snapshotID = strings.TrimSpace(snapshotID)
	if snapshotID == "" {
		return dataset.Snapshot{}, fmt.Errorf("%w: dataset id is required", ErrInvalidInput)
	}

	snapshot, exists, err := s.archive.Load(ctx, snapshotID)
	if err != nil {
		return dataset.Snapshot{}, fmt.Errorf("load archived dataset: %w", err)
	}
	if !exists {
		return dataset.Snapshot{}, fmt.Errorf("%w: archived dataset=%s", ErrNotFound, snapshotID)
	}

	if err := s.repo.Replace(ctx, snapshot); err != nil {
		return dataset.Snapshot{}, fmt.Errorf("replace dataset: %w", err)
	}
	s.invalidate(ctx, snapshot.ID)

	s.logger.InfoContext(ctx, "dataset restored from archive", "dataset_id", snapshot.ID, "matches", len(snapshot.Records))
	return snapshot, nil
}

// ArchiveDelete removes the cold copy permanently. The live store is not
// touched; deleting a live dataset keeps its archive so it stays restorable,
// this is the only way to drop the archived copy.
func (s *DatasetService) ArchiveDelete(ctx context.Context, snapshotID string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.DatasetService.ArchiveDelete")
	defer span.End()

	if s.archive == nil {
		return fmt.Errorf("%w: archive is not configured", ErrDependencyUnavailable)
	}
	snapshotID = strings.TrimSpace(snapshotID)
	if snapshotID == "" {
		return fmt.Errorf("%w: dataset id is required", ErrInvalidInput)
	}

	_, exists, err := s.archive.Load(ctx, snapshotID)
	if err != nil {
		return fmt.Errorf("load archived dataset: %w", err)
	}
	if !exists {
		return fmt.Errorf("%w: archived dataset=%s", ErrNotFound, snapshotID)
	}

	if err := s.archive.Delete(ctx, snapshotID); err != nil {
		return fmt.Errorf("delete archived dataset: %w", err)
	}

	s.logger.InfoContext(ctx, "archived dataset deleted", "dataset_id", snapshotID)
	return nil
}

func (s *DatasetService) storeSnapshot(ctx context.Context, snapshot dataset.Snapshot) error {
	if err := s.repo.Replace(ctx, snapshot); err != nil {
		return fmt.Errorf("replace dataset: %w", err)
	}
	s.invalidate(ctx, snapshot.ID)
	s.archiveAsync(snapshot)
	return nil
}

func (s *DatasetService) invalidate(ctx context.Context, snapshotID string) {
	if s.cache == nil {
		return
	}
	s.cache.DeletePrefix(ctx, aggCachePrefix(snapshotID))
}

// archiveAsync persists off the request path; archive lag is acceptable,
// blocking uploads on Postgres is not.
func (s *DatasetService) archiveAsync(snapshot dataset.Snapshot) {
	if s.archive == nil {
		return
	}

	persist := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := s.archive.Save(ctx, snapshot); err != nil {
			s.logger.Error("archive dataset failed", "dataset_id", snapshot.ID, "error", err)
			return
		}
		s.logger.Debug("dataset archived", "dataset_id", snapshot.ID)
	}

	if s.pool == nil {
		go persist()
		return
	}
	if err := s.pool.Submit(persist); err != nil {
		s.logger.Warn("archive pool submit failed, running inline", "dataset_id", snapshot.ID, "error", err)
		persist()
	}
}

func (s *DatasetService) newID() (string, error) {
	if s.ids == nil {
		return "", fmt.Errorf("%w: id generator is not configured", ErrDependencyUnavailable)
	}
	snapshotID, err := s.ids.NewID()
	if err != nil {
		return "", fmt.Errorf("generate dataset id: %w", err)
	}
	return snapshotID, nil
}

func loadSnapshot(ctx context.Context, repo dataset.Repository, snapshotID string) (dataset.Snapshot, error) {
	snapshotID = strings.TrimSpace(snapshotID)
	if snapshotID == "" {
		return dataset.Snapshot{}, fmt.Errorf("%w: dataset id is required", ErrInvalidInput)
	}

	snapshot, exists, err := repo.Get(ctx, snapshotID)
	if err != nil {
		return dataset.Snapshot{}, fmt.Errorf("get dataset: %w", err)
	}
	if !exists {
		return dataset.Snapshot{}, fmt.Errorf("%w: dataset=%s", ErrNoDataset, snapshotID)
	}
	return snapshot, nil
}

func validateSourceURL(rawURL string) error {
	if rawURL == "" {
		return fmt.Errorf("%w: url is required", ErrInvalidInput)
	}
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("%w: invalid url", ErrInvalidInput)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("%w: url scheme must be http or https", ErrInvalidInput)
	}
	if parsed.Host == "" {
		return fmt.Errorf("%w: url host is required", ErrInvalidInput)
	}
	return nil
}

func defaultName(name, fallback string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return fallback
	}
	return name
}

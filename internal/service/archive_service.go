package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"followership/internal/cache"
	"followership/internal/model"
	"followership/internal/repository"
	"followership/internal/storage"
)

// ReportPrefix is the object store folder for archived reports
const ReportPrefix = "followership-reports/"

var (
	ErrNotPDF         = errors.New("uploaded file is not a PDF")
	ErrFileTooLarge   = errors.New("uploaded file is too large")
	ErrReportNotFound = errors.New("report not found")
)

// ResultSource resolves completed sessions for archiving
type ResultSource interface {
	Result(ctx context.Context, id string) (*model.SessionState, *model.AnalysisResult, error)
}

// ArchiveService stores rendered result PDFs and serves them to admins
type ArchiveService struct {
	results    ResultSource
	reportRepo repository.ReportRepo
	blobs      storage.BlobStore
	stats      cache.StatsCache
	publicURL  string
	maxBytes   int64
	now        func() time.Time
}

// NewArchiveService creates a new archive service
func NewArchiveService(
	results ResultSource,
	reportRepo repository.ReportRepo,
	blobs storage.BlobStore,
	stats cache.StatsCache,
	publicURL string,
	maxBytes int64,
) *ArchiveService {
	return &ArchiveService{
		results:    results,
		reportRepo: reportRepo,
		blobs:      blobs,
		stats:      stats,
		publicURL:  strings.TrimRight(publicURL, "/"),
		maxBytes:   maxBytes,
		now:        time.Now,
	}
}

// Archive stores the PDF rendering of a completed session's result
func (s *ArchiveService) Archive(ctx context.Context, sessionID string, pdf io.Reader) (*model.ReportRecord, error) {
	state, result, err := s.results.Result(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	data, err := s.readPDF(pdf)
	if err != nil {
		return nil, err
	}

	now := s.now()
	fileName := ReportFileName(state.Identity, now)
	fileID, err := s.blobs.Put(ctx, ReportPrefix+fileName, bytes.NewReader(data), "application/pdf")
	if err != nil {
		return nil, fmt.Errorf("failed to store report file: %w", err)
	}

	record := &model.ReportRecord{
		FileName:         fileName,
		FileID:           fileID,
		UserName:         state.Identity.Name,
		Company:          state.Identity.Company,
		FollowershipType: result.Type.Name,
		TypeCode:         result.Type.Code,
		ScoreA:           result.ScoreParticipation,
		ScoreB:           result.ScoreIndependentThinking,
		SizeBytes:        int64(len(data)),
		CreatedAt:        now,
	}
	if _, err := s.reportRepo.Create(ctx, record); err != nil {
		// Do not leave an orphaned file behind
		if delErr := s.blobs.Delete(ctx, fileID); delErr != nil {
			log.Printf("Failed to remove orphaned report file %s: %v", fileID, delErr)
		}
		return nil, fmt.Errorf("failed to save report metadata: %w", err)
	}

	if err := s.stats.Increment(ctx, record.FollowershipType, record.Company); err != nil {
		log.Printf("Failed to update report stats: %v", err)
	}

	s.decorate(record)
	log.Printf("Archived report %s (%s, %d bytes)", record.ID, fileName, record.SizeBytes)
	return record, nil
}

// List returns archived reports, newest first
func (s *ArchiveService) List(ctx context.Context, limit int64) ([]*model.ReportRecord, error) {
	records, err := s.reportRepo.List(ctx, limit)
	if err != nil {
		return nil, err
	}
	for _, r := range records {
		s.decorate(r)
	}
	return records, nil
}

// Open returns a report's metadata and a reader for its file
func (s *ArchiveService) Open(ctx context.Context, id string) (*model.ReportRecord, io.ReadCloser, error) {
	record, err := s.get(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	rc, err := s.blobs.Open(ctx, record.FileID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil, ErrReportNotFound
	}
	if err != nil {
		return nil, nil, err
	}
	return record, rc, nil
}

// Delete removes a report file and then its metadata
func (s *ArchiveService) Delete(ctx context.Context, id string) error {
	record, err := s.get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.blobs.Delete(ctx, record.FileID); err != nil {
		return fmt.Errorf("failed to delete report file: %w", err)
	}
	deleted, err := s.reportRepo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete report metadata: %w", err)
	}
	if !deleted {
		// Lost a race with another delete; the counters were already adjusted
		return nil
	}
	if err := s.stats.Decrement(ctx, record.FollowershipType, record.Company); err != nil {
		log.Printf("Failed to update report stats: %v", err)
	}
	log.Printf("Deleted report %s", id)
	return nil
}

// Stats summarises archived reports by type and company. Counters come from
// Redis and are rebuilt from MongoDB when they are missing.
func (s *ArchiveService) Stats(ctx context.Context) (*model.ReportStats, error) {
	total, err := s.reportRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	stats := &model.ReportStats{
		Total:     total,
		ByType:    map[string]int{},
		ByCompany: map[string]int{},
	}
	if total == 0 {
		return stats, nil
	}

	byType, typeErr := s.stats.ByType(ctx)
	byCompany, companyErr := s.stats.ByCompany(ctx)
	if typeErr == nil && companyErr == nil && sum(byType) == total && sum(byCompany) == total {
		stats.ByType = byType
		stats.ByCompany = byCompany
		return stats, nil
	}

	if byType, err = s.reportRepo.CountBy(ctx, "followershipType"); err != nil {
		return nil, err
	}
	if byCompany, err = s.reportRepo.CountBy(ctx, "company"); err != nil {
		return nil, err
	}
	if err := s.stats.Reset(ctx, byType, byCompany); err != nil {
		log.Printf("Failed to rebuild report stats: %v", err)
	}
	stats.ByType = byType
	stats.ByCompany = byCompany
	return stats, nil
}

func (s *ArchiveService) get(ctx context.Context, id string) (*model.ReportRecord, error) {
	record, err := s.reportRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, ErrReportNotFound
	}
	s.decorate(record)
	return record, nil
}

func (s *ArchiveService) readPDF(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, s.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	if int64(len(data)) > s.maxBytes {
		return nil, ErrFileTooLarge
	}
	if len(data) == 0 || http.DetectContentType(data) != "application/pdf" {
		return nil, ErrNotPDF
	}
	return data, nil
}

func (s *ArchiveService) decorate(r *model.ReportRecord) {
	r.DownloadURL = s.publicURL + "/v1/admin/reports/" + r.ID + "/file"
}

// ReportFileName builds the archive file name for a respondent
func ReportFileName(identity model.RespondentIdentity, at time.Time) string {
	return fmt.Sprintf("팔로워십_진단결과_%s_%s_%d.pdf",
		fileSafe(identity.Company), fileSafe(identity.Name), at.UnixMilli())
}

var unsafeFileChars = strings.NewReplacer("/", "_", "\\", "_", "\x00", "")

func fileSafe(s string) string {
	return unsafeFileChars.Replace(strings.TrimSpace(s))
}

func sum(m map[string]int) int {
	n := 0
	for _, v := range m {
		n += v
	}
	return n
}

package service

import (
	"fmt"
	"time"

	"github.com/nkechi/Smartprep/internal/dto"
	"github.com/nkechi/Smartprep/internal/model"
	"github.com/nkechi/Smartprep/internal/repository"
	"github.com/rs/zerolog/log"
)

// ResultService persists graded tests into per-child histories and serves
// them back. Histories are append-only: a record, once written, is never
// rewritten by later submissions.
type ResultService interface {
	AppendRecord(childID uint, childName string, record *model.TestRecord) (*dto.ChildHistoryDTO, error)
	// SubmitPayload accepts the wire-shaped submission used by the portal's
	// client: an already graded record plus the child identifiers.
	SubmitPayload(req dto.TestSubmitDTO) (*dto.ResultsResponse, error)
	GetResults(childID uint) (*dto.ResultsResponse, error)
}

type resultService struct {
	resultRepo repository.ResultRepository
}

func NewResultService(resultRepo repository.ResultRepository) ResultService {
	return &resultService{resultRepo: resultRepo}
}

func (s *resultService) AppendRecord(childID uint, childName string, record *model.TestRecord) (*dto.ChildHistoryDTO, error) {
	history, err := s.resultRepo.AppendTest(childID, childName, record)
	if err != nil {
		log.Error().Err(err).Uint("childID", childID).Msg("AppendRecord: failed to persist test record")
		return nil, fmt.Errorf("error saving test result for child %d: %w", childID, err)
	}
	log.Info().Uint("childID", childID).Uint("recordID", record.ID).Int("tests", len(history.Tests)).Msg("Test record appended to child history")
	historyDTO := toChildHistoryDTO(history)
	return &historyDTO, nil
}

func (s *resultService) SubmitPayload(req dto.TestSubmitDTO) (*dto.ResultsResponse, error) {
	record := &model.TestRecord{
		ParentID:     req.ParentID,
		Exam:         req.Exam,
		OverallScore: req.OverallScore,
		Date:         time.Now(),
	}
	if req.Date != nil {
		record.Date = *req.Date
	}
	for _, sr := range req.Subjects {
		breakdown := make(model.TopicTallies, len(sr.TopicBreakdown))
		for topic, tally := range sr.TopicBreakdown {
			breakdown[topic] = model.TopicTally{Correct: tally.Correct, Total: tally.Total}
		}
		record.Subjects = append(record.Subjects, model.SubjectResult{
			Subject:        sr.Subject,
			QuestionsCount: sr.QuestionsCount,
			Correct:        sr.Correct,
			Total:          sr.Total,
			Percent:        sr.Percent,
			TopicBreakdown: breakdown,
		})
	}

	history, err := s.AppendRecord(req.ChildID, req.ChildName, record)
	if err != nil {
		return nil, err
	}
	return &dto.ResultsResponse{Results: []dto.ChildHistoryDTO{*history}}, nil
}

func (s *resultService) GetResults(childID uint) (*dto.ResultsResponse, error) {
	history, err := s.resultRepo.FindByChildID(childID)
	if err != nil {
		log.Error().Err(err).Uint("childID", childID).Msg("GetResults: failed to read child history")
		return nil, fmt.Errorf("error fetching results for child %d: %w", childID, err)
	}

	resp := &dto.ResultsResponse{Results: []dto.ChildHistoryDTO{}}
	if history != nil {
		resp.Results = append(resp.Results, toChildHistoryDTO(history))
	}
	return resp, nil
}

func toChildHistoryDTO(history *model.ChildHistory) dto.ChildHistoryDTO {
	out := dto.ChildHistoryDTO{
		ID:        history.ID,
		ChildID:   history.ChildID,
		ChildName: history.ChildName,
		Tests:     make([]dto.TestRecordDTO, 0, len(history.Tests)),
	}
	for _, record := range history.Tests {
		out.Tests = append(out.Tests, ToTestRecordDTO(&record))
	}
	return out
}

// ToTestRecordDTO maps a persisted record into its response shape.
func ToTestRecordDTO(record *model.TestRecord) dto.TestRecordDTO {
	out := dto.TestRecordDTO{
		ID:           record.ID,
		Exam:         record.Exam,
		OverallScore: record.OverallScore,
		Date:         record.Date,
		Subjects:     make([]dto.SubjectResultDTO, 0, len(record.Subjects)),
	}
	for _, sr := range record.Subjects {
		breakdown := make(map[string]dto.TopicTallyDTO, len(sr.TopicBreakdown))
		for topic, tally := range sr.TopicBreakdown {
			breakdown[topic] = dto.TopicTallyDTO{Correct: tally.Correct, Total: tally.Total}
		}
		out.Subjects = append(out.Subjects, dto.SubjectResultDTO{
			Subject:        sr.Subject,
			QuestionsCount: sr.QuestionsCount,
			Correct:        sr.Correct,
			Total:          sr.Total,
			Percent:        sr.Percent,
			TopicBreakdown: breakdown,
		})
	}
	return out
}

package service

import (
	"testing"
	"time"

	"github.com/nkechi/Smartprep/internal/dto"
	"github.com/nkechi/Smartprep/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRecord(exam string, overall int, subjects ...model.SubjectResult) *model.TestRecord {
	return &model.TestRecord{
		Exam:         exam,
		Subjects:     subjects,
		OverallScore: overall,
		Date:         time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
	}
}

func TestAppendRecord_HistoryGrowsOldestFirst(t *testing.T) {
	repo := newFakeResultRepo()
	svc := NewResultService(repo)

	first, err := svc.AppendRecord(5, "Ada", newRecord("WAEC", 40))
	require.NoError(t, err)
	require.Len(t, first.Tests, 1)

	second, err := svc.AppendRecord(5, "Ada", newRecord("WAEC", 90))
	require.NoError(t, err)
	require.Len(t, second.Tests, 2)
	assert.Equal(t, 40, second.Tests[0].OverallScore)
	assert.Equal(t, 90, second.Tests[1].OverallScore)
	assert.Equal(t, "Ada", second.ChildName)
}

func TestAppendRecord_EarlierRecordsAreNeverRewritten(t *testing.T) {
	repo := newFakeResultRepo()
	svc := NewResultService(repo)

	_, err := svc.AppendRecord(5, "Ada", newRecord("WAEC", 40, model.SubjectResult{
		Subject: "Mathematics", QuestionsCount: 40, Correct: 16, Total: 40, Percent: 40,
	}))
	require.NoError(t, err)

	_, err = svc.AppendRecord(5, "Ada", newRecord("WAEC", 90, model.SubjectResult{
		Subject: "Mathematics", QuestionsCount: 40, Correct: 36, Total: 40, Percent: 90,
	}))
	require.NoError(t, err)

	results, err := svc.GetResults(5)
	require.NoError(t, err)
	require.Len(t, results.Results, 1)
	tests := results.Results[0].Tests
	require.Len(t, tests, 2)
	assert.Equal(t, 40, tests[0].Subjects[0].Percent)
	assert.Equal(t, 90, tests[1].Subjects[0].Percent)
}

func TestAppendRecord_PersistFailureSurfaces(t *testing.T) {
	repo := newFakeResultRepo()
	repo.failWith = errStoreDown
	svc := NewResultService(repo)

	_, err := svc.AppendRecord(5, "Ada", newRecord("WAEC", 40))
	require.Error(t, err)
	assert.ErrorIs(t, err, errStoreDown)
}

func TestSubmitPayload_ConvertsWireShape(t *testing.T) {
	repo := newFakeResultRepo()
	svc := NewResultService(repo)

	date := time.Date(2026, 2, 14, 12, 30, 0, 0, time.UTC)
	resp, err := svc.SubmitPayload(dto.TestSubmitDTO{
		ChildID:   9,
		ChildName: "Chidi",
		Exam:      "BECE",
		Subjects: []dto.SubjectResultDTO{{
			Subject:        "Basic Science",
			QuestionsCount: 40,
			Correct:        30,
			Total:          40,
			Percent:        75,
			TopicBreakdown: map[string]dto.TopicTallyDTO{"Energy": {Correct: 10, Total: 12}},
		}},
		OverallScore: 75,
		Date:         &date,
	})
	require.NoError(t, err)
	require.Len(t, resp.Results, 1)

	tests := resp.Results[0].Tests
	require.Len(t, tests, 1)
	assert.Equal(t, "BECE", tests[0].Exam)
	assert.Equal(t, 75, tests[0].OverallScore)
	assert.True(t, tests[0].Date.Equal(date))
	require.Len(t, tests[0].Subjects, 1)
	assert.Equal(t, "Basic Science", tests[0].Subjects[0].Subject)
	assert.Equal(t, dto.TopicTallyDTO{Correct: 10, Total: 12}, tests[0].Subjects[0].TopicBreakdown["Energy"])
}

func TestSubmitPayload_DateDefaultsToNow(t *testing.T) {
	repo := newFakeResultRepo()
	svc := NewResultService(repo)

	before := time.Now()
	resp, err := svc.SubmitPayload(dto.TestSubmitDTO{ChildID: 9, ChildName: "Chidi", Exam: "BECE"})
	require.NoError(t, err)

	got := resp.Results[0].Tests[0].Date
	assert.False(t, got.Before(before))
	assert.False(t, got.After(time.Now()))
}

func TestGetResults_UnknownChildIsEmptyNotError(t *testing.T) {
	svc := NewResultService(newFakeResultRepo())

	resp, err := svc.GetResults(404)
	require.NoError(t, err)
	assert.NotNil(t, resp.Results)
	assert.Empty(t, resp.Results)
}

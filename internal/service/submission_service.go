package service

import (
	"context"
	"errors"
	"mime"
	"path/filepath"
	"strings"
	"time"

	"github.com/lshigami/mockprep/config"
	"github.com/lshigami/mockprep/internal/apperr"
	"github.com/lshigami/mockprep/internal/dto"
	"github.com/lshigami/mockprep/internal/model"
	"github.com/lshigami/mockprep/internal/repository"
	"github.com/lshigami/mockprep/internal/scoring"
	"github.com/rs/zerolog/log"
)

const defaultMediaTimeout = 60 * time.Second

// MediaFile is an uploaded voice or video answer.
type MediaFile struct {
	Data        []byte
	ContentType string
	Filename    string
}

// SubmissionService grades one submission per call and records exactly one
// TestSession for it. Nothing is written when any step fails.
type SubmissionService interface {
	SubmitMCQ(ctx context.Context, userID uint, req dto.SubmitMCQRequest) (*dto.SubmissionResultDTO, error)
	SubmitText(ctx context.Context, userID uint, req dto.SubmitTextRequest) (*dto.SubmissionResultDTO, error)
	SubmitVoice(ctx context.Context, userID uint, req dto.SubmitMediaRequest, media MediaFile) (*dto.SubmissionResultDTO, error)
	SubmitVideo(ctx context.Context, userID uint, req dto.SubmitMediaRequest, media MediaFile) (*dto.SubmissionResultDTO, error)
}

type submissionService struct {
	questions      *QuestionFinder
	sessionRepo    repository.TestSessionRepository
	transcriber    TranscriptionService
	analyzer       VideoAnalysisService
	storage        StorageService
	scoreConverter ScoreConverterService
	scoringOpts    scoring.Options
	mediaTimeout   time.Duration
}

func NewSubmissionService(
	questions *QuestionFinder,
	sessionRepo repository.TestSessionRepository,
	transcriber TranscriptionService,
	analyzer VideoAnalysisService,
	storage StorageService,
	scoreConverter ScoreConverterService,
	cfg *config.Config,
) SubmissionService {
	timeout := cfg.Media.AnalysisTimeout
	if timeout <= 0 {
		timeout = defaultMediaTimeout
	}
	return &submissionService{
		questions:      questions,
		sessionRepo:    sessionRepo,
		transcriber:    transcriber,
		analyzer:       analyzer,
		storage:        storage,
		scoreConverter: scoreConverter,
		scoringOpts:    scoring.Options{DedupeKeywords: cfg.Scoring.DedupeKeywords},
		mediaTimeout:   timeout,
	}
}

func (s *submissionService) SubmitMCQ(ctx context.Context, userID uint, req dto.SubmitMCQRequest) (result *dto.SubmissionResultDTO, err error) {
	defer func() { observeSubmission(scoring.MCQ, result, err) }()

	difficulty, err := validateSubmission(userID, req.CourseID, req.Difficulty)
	if err != nil {
		return nil, err
	}
	if len(req.Answers) == 0 {
		return nil, apperr.Validationf("at least one answer is required")
	}

	questions, err := s.resolveQuestions(ctx, req.CourseID, difficulty, nil, scoring.MCQ)
	if err != nil {
		return nil, err
	}

	items := make([]scoring.MCQItem, len(questions))
	for i, q := range questions {
		items[i] = scoring.MCQItem{QuestionID: q.ID, CorrectAnswer: q.CorrectAnswer}
	}
	responses := make(map[uint]string, len(req.Answers))
	for _, a := range req.Answers {
		responses[a.QuestionID] = a.Response
	}
	graded := scoring.ScoreMCQSet(items, responses)

	answers := make([]model.SessionAnswer, len(questions))
	for i, q := range questions {
		questionID := q.ID
		answers[i] = model.SessionAnswer{
			QuestionID:     &questionID,
			QuestionNumber: i + 1,
			Response:       responses[q.ID],
			Score:          graded.PerQuestion[i],
		}
	}

	session := &model.TestSession{
		UserID:     userID,
		CourseID:   req.CourseID,
		TestType:   scoring.MCQ,
		Difficulty: difficulty,
		Score:      graded.Score,
		Matched:    graded.Correct,
		Total:      graded.Total,
		Status:     model.SessionStatusCompleted,
		Answers:    answers,
	}
	if err := s.persist(ctx, session, nil); err != nil {
		return nil, err
	}

	result = s.toResult(session)
	result.CorrectAnswers = &graded.Correct
	result.TotalQuestions = &graded.Total
	return result, nil
}

func (s *submissionService) SubmitText(ctx context.Context, userID uint, req dto.SubmitTextRequest) (result *dto.SubmissionResultDTO, err error) {
	defer func() { observeSubmission(scoring.Text, result, err) }()

	difficulty, err := validateSubmission(userID, req.CourseID, req.Difficulty)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Answer) == "" {
		return nil, apperr.Validationf("answer is required")
	}

	questions, err := s.resolveQuestions(ctx, req.CourseID, difficulty, req.QuestionID, scoring.Text)
	if err != nil {
		return nil, err
	}
	graded := scoring.ScoreTextWith(req.Answer, collectKeywords(questions), s.scoringOpts)

	session := s.keywordSession(userID, req.CourseID, scoring.Text, difficulty, req.QuestionID, req.Answer, graded)
	if err := s.persist(ctx, session, nil); err != nil {
		return nil, err
	}

	result = s.toResult(session)
	result.MatchedKeywords = &graded.Matched
	result.TotalKeywords = &graded.Total
	return result, nil
}

func (s *submissionService) SubmitVoice(ctx context.Context, userID uint, req dto.SubmitMediaRequest, media MediaFile) (result *dto.SubmissionResultDTO, err error) {
	defer func() { observeSubmission(scoring.Voice, result, err) }()

	difficulty, err := validateSubmission(userID, req.CourseID, req.Difficulty)
	if err != nil {
		return nil, err
	}
	if len(media.Data) == 0 {
		return nil, apperr.Validationf("audio file is required")
	}

	questions, err := s.resolveQuestions(ctx, req.CourseID, difficulty, req.QuestionID, scoring.Voice, scoring.Text)
	if err != nil {
		return nil, err
	}

	mediaCtx, cancel := context.WithTimeout(ctx, s.mediaTimeout)
	defer cancel()
	transcript, err := s.transcribe(mediaCtx, media)
	if err != nil {
		return nil, err
	}

	graded := scoring.ScoreTextWith(transcript, collectKeywords(questions), s.scoringOpts)

	var uploaded []string
	audioURL, err := s.upload(ctx, &uploaded, ObjectKey("voice", userID, extensionFor(media)), media.Data, media.ContentType)
	if err != nil {
		return nil, err
	}

	session := s.keywordSession(userID, req.CourseID, scoring.Voice, difficulty, req.QuestionID, transcript, graded)
	session.Artifacts = model.SessionArtifacts{AudioURL: audioURL, Transcript: transcript}
	if err := s.persist(ctx, session, uploaded); err != nil {
		return nil, err
	}

	result = s.toResult(session)
	result.MatchedKeywords = &graded.Matched
	result.TotalKeywords = &graded.Total
	result.Transcript = transcript
	return result, nil
}

func (s *submissionService) SubmitVideo(ctx context.Context, userID uint, req dto.SubmitMediaRequest, media MediaFile) (result *dto.SubmissionResultDTO, err error) {
	defer func() { observeSubmission(scoring.Video, result, err) }()

	difficulty, err := validateSubmission(userID, req.CourseID, req.Difficulty)
	if err != nil {
		return nil, err
	}
	if len(media.Data) == 0 {
		return nil, apperr.Validationf("video file is required")
	}

	questions, err := s.resolveQuestions(ctx, req.CourseID, difficulty, req.QuestionID, scoring.Video, scoring.Text)
	if err != nil {
		return nil, err
	}

	// analysis and transcription share one budget
	mediaCtx, cancel := context.WithTimeout(ctx, s.mediaTimeout)
	defer cancel()

	start := time.Now()
	analysis, err := s.analyzer.Analyze(mediaCtx, media.Data)
	mediaStepDuration.WithLabelValues("video_analysis").Observe(time.Since(start).Seconds())
	if err != nil {
		log.Error().Err(err).Uint("userID", userID).Msg("SubmitVideo: video analysis failed")
		return nil, mediaError(mediaCtx, err, "video analysis")
	}
	if analysis == nil {
		analysis = &VideoAnalysis{}
	}

	transcript, err := s.transcribe(mediaCtx, media)
	if err != nil {
		return nil, err
	}

	graded := scoring.ScoreTextWith(transcript, collectKeywords(questions), s.scoringOpts)

	var uploaded []string
	videoURL, err := s.upload(ctx, &uploaded, ObjectKey("video", userID, extensionFor(media)), media.Data, media.ContentType)
	if err != nil {
		return nil, err
	}
	frameURLs := make([]string, 0, len(analysis.Frames))
	for _, frame := range analysis.Frames {
		url, err := s.upload(ctx, &uploaded, ObjectKey("frames", userID, ".jpg"), frame, "image/jpeg")
		if err != nil {
			return nil, err
		}
		frameURLs = append(frameURLs, url)
	}

	session := s.keywordSession(userID, req.CourseID, scoring.Video, difficulty, req.QuestionID, transcript, graded)
	session.Artifacts = model.SessionArtifacts{VideoURL: videoURL, FrameImageURLs: frameURLs, Transcript: transcript}
	if err := s.persist(ctx, session, uploaded); err != nil {
		return nil, err
	}

	result = s.toResult(session)
	result.MatchedKeywords = &graded.Matched
	result.TotalKeywords = &graded.Total
	result.Transcript = transcript
	return result, nil
}

func validateSubmission(userID, courseID uint, difficulty string) (scoring.Difficulty, error) {
	if userID == 0 {
		return "", apperr.Unauthorizedf("authenticated user required")
	}
	if courseID == 0 {
		return "", apperr.Validationf("course_id is required")
	}
	d, err := scoring.ParseDifficulty(difficulty)
	if err != nil {
		return "", apperr.Wrap(apperr.Validation, err, "invalid difficulty")
	}
	return d, nil
}

// resolveQuestions loads the candidate questions. When questionID is set the
// result narrows to that question, which must belong to the same pool.
func (s *submissionService) resolveQuestions(ctx context.Context, courseID uint, difficulty scoring.Difficulty, questionID *uint, types ...scoring.TestType) ([]model.Question, error) {
	questions, err := s.questions.Find(ctx, courseID, difficulty, types...)
	if err != nil {
		if apperr.Is(err, apperr.NotFound) {
			return nil, err
		}
		return nil, apperr.Wrap(apperr.External, err, "question store unavailable")
	}

	if questionID != nil {
		for _, q := range questions {
			if q.ID == *questionID {
				return []model.Question{q}, nil
			}
		}
		return nil, apperr.NotFoundf("question %d not found for course %d at %s difficulty", *questionID, courseID, difficulty)
	}

	if len(questions) == 0 {
		log.Warn().Uint("courseID", courseID).Str("difficulty", string(difficulty)).Interface("types", types).Msg("No questions available for submission")
		return nil, apperr.NotFoundf("no questions available for course %d at %s difficulty", courseID, difficulty)
	}
	return questions, nil
}

func collectKeywords(questions []model.Question) []string {
	var keywords []string
	for _, q := range questions {
		keywords = append(keywords, q.Keywords...)
	}
	return keywords
}

func (s *submissionService) keywordSession(userID, courseID uint, testType scoring.TestType, difficulty scoring.Difficulty, questionID *uint, response string, graded scoring.TextResult) *model.TestSession {
	return &model.TestSession{
		UserID:     userID,
		CourseID:   courseID,
		TestType:   testType,
		Difficulty: difficulty,
		Score:      graded.Score,
		Matched:    graded.Matched,
		Total:      graded.Total,
		Status:     model.SessionStatusCompleted,
		Answers: []model.SessionAnswer{{
			QuestionID:     questionID,
			QuestionNumber: 1,
			Response:       response,
			Score:          graded.Score,
		}},
	}
}

func (s *submissionService) transcribe(ctx context.Context, media MediaFile) (string, error) {
	start := time.Now()
	transcript, err := s.transcriber.Transcribe(ctx, media.Data, media.ContentType)
	mediaStepDuration.WithLabelValues("transcription").Observe(time.Since(start).Seconds())
	if err != nil {
		log.Error().Err(err).Int("bytes", len(media.Data)).Msg("Transcription failed")
		return "", mediaError(ctx, err, "transcription")
	}
	return transcript, nil
}

// mediaError reports deadline expiry as an external failure even when the
// collaborator returned something else.
func mediaError(ctx context.Context, err error, step string) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return apperr.Wrap(apperr.External, ctx.Err(), "%s timed out", step)
	}
	if apperr.Is(err, apperr.Validation) {
		return err
	}
	if apperr.KindOf(err) == apperr.Internal {
		return apperr.Wrap(apperr.External, err, "%s failed", step)
	}
	return err
}

func (s *submissionService) upload(ctx context.Context, uploaded *[]string, key string, data []byte, contentType string) (string, error) {
	url, err := s.storage.Upload(ctx, key, data, contentType)
	if err != nil {
		log.Error().Err(err).Str("key", key).Msg("Media upload failed")
		s.cleanup(ctx, *uploaded)
		return "", apperr.Wrap(apperr.External, err, "media upload failed")
	}
	*uploaded = append(*uploaded, key)
	return url, nil
}

func (s *submissionService) persist(ctx context.Context, session *model.TestSession, uploaded []string) error {
	if err := s.sessionRepo.Create(ctx, session); err != nil {
		log.Error().Err(err).Uint("userID", session.UserID).Str("testType", string(session.TestType)).Msg("Failed to persist test session")
		s.cleanup(ctx, uploaded)
		return apperr.Wrap(apperr.External, err, "failed to save test session")
	}
	log.Info().
		Uint("sessionID", session.ID).
		Uint("userID", session.UserID).
		Str("testType", string(session.TestType)).
		Float64("score", session.Score).
		Msg("Test session recorded")
	return nil
}

// cleanup removes blobs of a submission that will not be recorded. It runs on
// a detached context so a cancelled request still cleans up.
func (s *submissionService) cleanup(ctx context.Context, keys []string) {
	if len(keys) == 0 {
		return
	}
	cleanupCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()
	for _, key := range keys {
		if err := s.storage.Delete(cleanupCtx, key); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("Failed to delete orphaned upload")
		}
	}
}

func (s *submissionService) toResult(session *model.TestSession) *dto.SubmissionResultDTO {
	sessionDTO := toSessionDTO(session, s.scoreConverter)
	return &dto.SubmissionResultDTO{
		Session:      sessionDTO,
		Score:        session.Score,
		ScorePercent: sessionDTO.ScorePercent,
	}
}

func extensionFor(media MediaFile) string {
	if ext := strings.ToLower(filepath.Ext(media.Filename)); ext != "" {
		return ext
	}
	if media.ContentType != "" {
		if exts, err := mime.ExtensionsByType(media.ContentType); err == nil && len(exts) > 0 {
			return exts[0]
		}
	}
	return ".bin"
}

func observeSubmission(testType scoring.TestType, result *dto.SubmissionResultDTO, err error) {
	if err != nil {
		submissionsTotal.WithLabelValues(string(testType), apperr.KindOf(err).String()).Inc()
		return
	}
	submissionsTotal.WithLabelValues(string(testType), "ok").Inc()
	if result != nil {
		submissionScore.WithLabelValues(string(testType)).Observe(result.Score)
	}
}

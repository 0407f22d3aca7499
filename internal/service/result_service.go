package service

import (
	"context"

	"github.com/jinzhu/copier"
	"github.com/lshigami/mockprep/internal/apperr"
	"github.com/lshigami/mockprep/internal/dto"
	"github.com/lshigami/mockprep/internal/model"
	"github.com/lshigami/mockprep/internal/repository"
	"github.com/lshigami/mockprep/internal/scoring"
	"github.com/rs/zerolog/log"
)

// ResultService answers history and next-difficulty questions. Both always
// read the session store so a just-recorded session is reflected.
type ResultService interface {
	GetResults(ctx context.Context, userID uint) (*dto.ResultsDTO, error)
	GetNextDifficulty(ctx context.Context, userID uint) (*dto.NextDifficultyDTO, error)
	GetSession(ctx context.Context, sessionID, requesterID uint, admin bool) (*dto.TestSessionDTO, error)
}

type resultService struct {
	sessionRepo    repository.TestSessionRepository
	scoreConverter ScoreConverterService
}

func NewResultService(sessionRepo repository.TestSessionRepository, scoreConverter ScoreConverterService) ResultService {
	return &resultService{sessionRepo: sessionRepo, scoreConverter: scoreConverter}
}

func (s *resultService) GetResults(ctx context.Context, userID uint) (*dto.ResultsDTO, error) {
	sessions, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	avg := scoring.AverageSessions(sessions)
	resp := &dto.ResultsDTO{
		UserID:         userID,
		Sessions:       make([]dto.TestSessionDTO, 0, len(sessions)),
		AverageScore:   avg,
		AveragePercent: percentOrZero(s.scoreConverter, avg),
	}
	for i := range sessions {
		resp.Sessions = append(resp.Sessions, toSessionDTO(&sessions[i], s.scoreConverter))
	}
	return resp, nil
}

func (s *resultService) GetNextDifficulty(ctx context.Context, userID uint) (*dto.NextDifficultyDTO, error) {
	sessions, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	avg := scoring.AverageSessions(sessions)
	return &dto.NextDifficultyDTO{
		UserID:         userID,
		AverageScore:   avg,
		SessionCount:   len(sessions),
		NextDifficulty: string(scoring.PredictNextDifficulty(avg)),
	}, nil
}

// GetSession returns one session with its answers. Only its owner or an
// admin may read it.
func (s *resultService) GetSession(ctx context.Context, sessionID, requesterID uint, admin bool) (*dto.TestSessionDTO, error) {
	session, err := s.sessionRepo.FindByID(ctx, sessionID)
	if err != nil {
		if apperr.Is(err, apperr.NotFound) {
			return nil, err
		}
		log.Error().Err(err).Uint("sessionID", sessionID).Msg("Failed to load test session")
		return nil, apperr.Wrap(apperr.External, err, "failed to load test session")
	}
	if session.UserID != requesterID && !admin {
		return nil, apperr.Forbiddenf("session %d belongs to another user", sessionID)
	}
	resp := toSessionDTO(session, s.scoreConverter)
	return &resp, nil
}

func (s *resultService) load(ctx context.Context, userID uint) ([]model.TestSession, error) {
	if userID == 0 {
		return nil, apperr.Validationf("user id is required")
	}
	sessions, err := s.sessionRepo.FindByUser(ctx, userID)
	if err != nil {
		log.Error().Err(err).Uint("userID", userID).Msg("Failed to load test sessions")
		return nil, apperr.Wrap(apperr.External, err, "failed to load test sessions")
	}
	return sessions, nil
}

func toSessionDTO(session *model.TestSession, converter ScoreConverterService) dto.TestSessionDTO {
	out := dto.TestSessionDTO{
		ID:           session.ID,
		UserID:       session.UserID,
		CourseID:     session.CourseID,
		TestType:     string(session.TestType),
		Difficulty:   string(session.Difficulty),
		Score:        session.Score,
		ScorePercent: percentOrZero(converter, session.Score),
		Matched:      session.Matched,
		Total:        session.Total,
		Status:       session.Status,
		CreatedAt:    session.CreatedAt,
		Artifacts: dto.ArtifactsDTO{
			AudioURL:       session.Artifacts.AudioURL,
			VideoURL:       session.Artifacts.VideoURL,
			FrameImageURLs: []string(session.Artifacts.FrameImageURLs),
			Transcript:     session.Artifacts.Transcript,
		},
	}
	if err := copier.Copy(&out.Answers, &session.Answers); err != nil {
		log.Error().Err(err).Uint("sessionID", session.ID).Msg("Failed to copy session answers to DTO")
	}
	return out
}

func percentOrZero(converter ScoreConverterService, score float64) float64 {
	p, err := converter.ToPercent(score)
	if err != nil {
		log.Warn().Err(err).Float64("score", score).Msg("Failed to convert score to percent")
		return 0
	}
	return p
}

package services

import (
	"context"
	"errors"
	"fmt"
	"html"
	"net/http"
	"strings"
	"time"

	ytapi "github.com/hightemp/youtube-transcript-api-go/api"
	yt "github.com/kkdai/youtube/v2"
	"go.uber.org/zap"
)

var captionLanguages = []string{"en", "en-US", "en-GB"}

// YouTubeService fetches video captions so a video can be distilled like text.
// The transcript API is tried first; the innertube client of kkdai/youtube is
// the fallback when a video lists no track the API can read.
type YouTubeService struct {
	transcriptAPI *ytapi.YouTubeTranscriptApi
	videos        *yt.Client
	logger        *zap.Logger
}

func NewYouTubeService(logger *zap.Logger) *YouTubeService {
	return &YouTubeService{
		transcriptAPI: ytapi.NewYouTubeTranscriptApi(),
		videos:        &yt.Client{HTTPClient: &http.Client{Timeout: 30 * time.Second}},
		logger:        logger,
	}
}

// VideoID accepts a full URL, a short link or a bare id.
func (s *YouTubeService) VideoID(rawURL string) (string, error) {
	id, err := yt.ExtractVideoID(strings.TrimSpace(rawURL))
	if err != nil {
		return "", &InvalidInputError{Message: fmt.Sprintf("invalid YouTube URL: %v", err)}
	}
	return id, nil
}

// Transcript returns the caption text for a video URL.
func (s *YouTubeService) Transcript(ctx context.Context, rawURL string) (string, error) {
	videoID, err := s.VideoID(rawURL)
	if err != nil {
		return "", err
	}

	text, apiErr := s.viaTranscriptAPI(videoID)
	if apiErr == nil {
		return text, nil
	}
	s.logger.Debug("transcript api failed, trying innertube", zap.String("video_id", videoID), zap.Error(apiErr))

	text, err = s.viaInnertube(ctx, videoID)
	if err != nil {
		return "", fmt.Errorf("no captions for %s: %w", videoID, errors.Join(apiErr, err))
	}
	return text, nil
}

func (s *YouTubeService) viaTranscriptAPI(videoID string) (string, error) {
	transcript, err := s.transcriptAPI.GetTranscript(videoID, captionLanguages)
	if err != nil {
		if transcript, err = s.transcriptAPI.GetTranscript(videoID, nil); err != nil {
			return "", err
		}
	}

	parts := make([]string, len(transcript.Entries))
	for i, entry := range transcript.Entries {
		parts[i] = entry.Text
	}
	return joinCaptionText(parts)
}

func (s *YouTubeService) viaInnertube(ctx context.Context, videoID string) (string, error) {
	video, err := s.videos.GetVideoContext(ctx, videoID)
	if err != nil {
		return "", fmt.Errorf("video lookup: %w", err)
	}

	lang := preferCaptionLanguage(video.CaptionTracks)
	if lang == "" {
		return "", yt.ErrTranscriptDisabled
	}

	segments, err := s.videos.GetTranscriptCtx(ctx, video, lang)
	if err != nil {
		return "", err
	}

	parts := make([]string, len(segments))
	for i, seg := range segments {
		parts[i] = seg.Text
	}
	return joinCaptionText(parts)
}

// preferCaptionLanguage picks an English track when one exists, a manual track
// over an auto-generated one, and otherwise the first listed.
func preferCaptionLanguage(tracks []yt.CaptionTrack) string {
	best, bestRank := "", -1
	for _, track := range tracks {
		rank := 0
		for _, lang := range captionLanguages {
			if strings.EqualFold(track.LanguageCode, lang) {
				rank += 2
				break
			}
		}
		if track.Kind != "asr" {
			rank++
		}
		if rank > bestRank {
			best, bestRank = track.LanguageCode, rank
		}
	}
	return best
}

// joinCaptionText unescapes caption fragments and joins the non-blank ones.
func joinCaptionText(parts []string) (string, error) {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(html.UnescapeString(p)); p != "" {
			kept = append(kept, p)
		}
	}
	if len(kept) == 0 {
		return "", errors.New("caption track is empty")
	}
	return strings.Join(kept, " "), nil
}

package loader

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/meetagent/internal/model"
)

type transcriptConfig struct {
	// Path is a local file path or an http(s) URL to a JSONL file of
	// meeting records.
	Path string `json:"path"`
}

// transcriptLoader reads meeting transcripts in JSONL form: one meeting per
// line, each carrying transcript segments with speaker and text. Filler
// utterances are cleaned out before a segment becomes a document.
type transcriptLoader struct {
	path string
}

type transcriptLine struct {
	DialogID string `json:"dialogId"`
	Meeting  struct {
		MeetingID          string `json:"meetingId"`
		TranscriptSegments []struct {
			SpeakerName string `json:"speakerName"`
			Text        string `json:"text"`
		} `json:"transcriptSegments"`
	} `json:"meeting"`
}

var fillerRe = regexp.MustCompile(`(?i)\bmm hmm\b|\bhmm\b|\buh huh\b|\buh\b|\bum\b|\byeah\b|\bokay\b|\bok\b|\bbye\b|\bsee you\b|\bthanks\b|\bthank you\b`)

var spaceRe = regexp.MustCompile(`\s+`)

var wordRe = regexp.MustCompile(`\w+`)

var punctOnlyRe = regexp.MustCompile(`^[.,\- ]+$`)

var fillerWords = map[string]struct{}{
	"ah": {}, "oh": {}, "hmm": {}, "mm": {}, "alright": {}, "bye": {},
	"yeah": {}, "okay": {}, "ok": {}, "definitely": {},
}

// cleanSegment strips filler words and collapses whitespace.
func cleanSegment(text string) string {
	cleaned := fillerRe.ReplaceAllString(text, "")
	cleaned = spaceRe.ReplaceAllString(cleaned, " ")
	return strings.TrimSpace(cleaned)
}

// isUselessSegment reports segments that carry no retrievable content:
// punctuation-only text or one or two filler words.
func isUselessSegment(text string) bool {
	t := strings.TrimSpace(text)
	if t == "" || punctOnlyRe.MatchString(t) {
		return true
	}
	words := wordRe.FindAllString(strings.ToLower(t), -1)
	if len(words) > 2 {
		return false
	}
	for _, w := range words {
		if _, ok := fillerWords[w]; !ok {
			return false
		}
	}
	return true
}

func (l *transcriptLoader) Load(ctx context.Context, fn func(doc model.Document) error) error {
	reader, closer, err := l.open(ctx)
	if err != nil {
		return err
	}
	defer closer()

	now := time.Now().UnixMilli()
	logger := logutil.GetLogger(ctx).With(zap.String("path", l.path))
	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 0, 1024*1024), 16*1024*1024)
	lines := 0
	for scanner.Scan() {
		raw := strings.TrimSpace(scanner.Text())
		if raw == "" {
			continue
		}
		var line transcriptLine
		if err := json.Unmarshal([]byte(raw), &line); err != nil {
			logger.Debug("skipping malformed transcript line", zap.Error(err))
			continue
		}
		meetingID := line.Meeting.MeetingID
		if meetingID == "" {
			meetingID = line.DialogID
		}
		if meetingID == "" {
			meetingID = "unknown"
		}
		for _, seg := range line.Meeting.TranscriptSegments {
			text := cleanSegment(seg.Text)
			if text == "" || isUselessSegment(text) {
				continue
			}
			speaker := seg.SpeakerName
			docID := meetingID + "-" + speakerOr(speaker, "unknown")
			doc := model.Document{
				DocID:     docID,
				Source:    model.SourceMeetingTranscript,
				OriginID:  meetingID,
				Title:     meetingID,
				Speaker:   speaker,
				Timestamp: now,
				Text:      text,
			}
			if err := fn(doc); err != nil {
				return err
			}
		}
		lines++
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read transcript: %w", err)
	}
	logger.Info("transcript loaded", zap.Int("meetings", lines))
	return nil
}

func (l *transcriptLoader) open(ctx context.Context) (io.Reader, func(), error) {
	if strings.HasPrefix(l.path, "http://") || strings.HasPrefix(l.path, "https://") {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.path, nil)
		if err != nil {
			return nil, nil, err
		}
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			return nil, nil, err
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return nil, nil, fmt.Errorf("fetch transcript: %s", resp.Status)
		}
		return resp.Body, func() { resp.Body.Close() }, nil
	}
	file, err := os.Open(l.path)
	if err != nil {
		return nil, nil, err
	}
	return file, func() { file.Close() }, nil
}

func speakerOr(speaker, fallback string) string {
	if speaker == "" {
		return fallback
	}
	return speaker
}

func createTranscriptLoader(args interface{}) (Loader, error) {
	cfg := &transcriptConfig{}
	if err := decodeConfig(args, cfg); err != nil {
		return nil, err
	}
	if cfg.Path == "" {
		return nil, fmt.Errorf("transcript source path is required")
	}
	return &transcriptLoader{path: cfg.Path}, nil
}

func init() {
	Register("transcript-jsonl", createTranscriptLoader)
}

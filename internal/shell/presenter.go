package shell

import (
	"errors"
	"fmt"

	"github.com/tagvault/mediasearch/internal/models"
	"github.com/tagvault/mediasearch/internal/services"
	"go.uber.org/zap"
)

// historyTimeLayout is the display layout of view times
const historyTimeLayout = "2006-01-02 15:04:05"

// sessionSink prints search events and prompts for ratings on the session streams
type sessionSink struct {
	shell *Shell
}

func (p *sessionSink) ItemFailed(ref models.MediaRef, err error) {
	p.shell.logger.Warn("failed to load media details", zap.Error(err),
		zap.Int("media_id", ref.ID), zap.String("media_type", string(ref.Type)))
	p.shell.printf("[ERROR] Could not fetch details for %s ID %d.\n", ref.Type, ref.ID)
}

func (p *sessionSink) Display(item *models.MediaItem, rating models.AverageRating) {
	p.shell.println(FormatItem(item, rating))
}

// RequestRating re-prompts until the input is a valid rating or "skip"; end of input counts as skip
func (p *sessionSink) RequestRating(item *models.MediaItem) (int, bool) {
	for {
		line, ok := p.shell.prompt(fmt.Sprintf("Rate this %s (1-5, or skip): ", item.Type))
		if !ok {
			return 0, false
		}

		value, skip, err := services.ParseRatingInput(line)
		switch {
		case skip:
			return 0, false
		case errors.Is(err, services.ErrInvalidRating):
			p.shell.println("[INVALID] Invalid rating. Please enter a number between 1 and 5.")
		case err != nil:
			p.shell.println("[INVALID] Invalid input. Please enter a number (1-5) or 'skip'.")
		default:
			return value, true
		}
	}
}

func (p *sessionSink) RatingSubmitted(item *models.MediaItem, value int, err error) {
	if err != nil {
		p.shell.println("[ERROR] Failed to submit rating.")
		return
	}
	p.shell.println()
	p.shell.printf("[SUCCESS] Your rating of %d/5.0 has been saved!\n", value)
}

// FormatItem renders the display block of a resolved media item
func FormatItem(item *models.MediaItem, rating models.AverageRating) string {
	return fmt.Sprintf("%s\nTITLE: %s\nTYPE: %s (ID: %d)\n%s: %s\nRATING: %s\n%s\nABSOLUTE PATH (to access file): %s",
		separator,
		item.Title,
		item.Type, item.ID,
		item.MetricLabel(), item.Metric(),
		rating,
		divider,
		item.AbsolutePath,
	)
}

// FormatHistoryLine renders one history entry as "[time] - Type  - Title"
func FormatHistoryLine(item models.HistoryItem) string {
	return fmt.Sprintf("[%s] - %-5s - %s", item.ViewTime.Local().Format(historyTimeLayout), item.Ref.Type, item.Title)
}

package subtitles

import (
	"regexp"
	"strings"
)

var adPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)opensubtitles`),
	regexp.MustCompile(`(?i)subtitles? by`),
	regexp.MustCompile(`(?i)synced? and corrected`),
	regexp.MustCompile(`(?i)advertise (your|yours?) product`),
	regexp.MustCompile(`(?i)http(s)?://`),
	regexp.MustCompile(`(?i)\bwww\.`),
	regexp.MustCompile(`(?i)\bsubscene\b`),
	regexp.MustCompile(`(?i)\byts\b`),
	regexp.MustCompile(`(?i)\byify\b`),
}

// Clean removes cues with no text and, when dropAds is set, cues that look
// like release-group advertisements. Kept cues are renumbered from 1; the
// dropped advertisements are returned with their original index so callers
// can report them.
func Clean(cues []Cue, dropAds bool) (kept []Cue, ads []Cue) {
	kept = make([]Cue, 0, len(cues))
	for _, cue := range cues {
		if strings.TrimSpace(cue.Text) == "" {
			continue
		}
		if dropAds && isAdvertisement(cue.Text) {
			ads = append(ads, cue)
			continue
		}
		cue.Index = len(kept) + 1
		kept = append(kept, cue)
	}
	return kept, ads
}

func isAdvertisement(text string) bool {
	payload := strings.ToLower(strings.Join(strings.Fields(text), " "))
	if payload == "" {
		return false
	}
	for _, pattern := range adPatterns {
		if pattern.MatchString(payload) {
			return true
		}
	}
	return false
}

package normalize

import (
	"regexp"
	"strconv"
	"strings"

	"SportsFeed/internal/domain"
)

// ScoreFormat tags which heuristic recognized a headline.
type ScoreFormat int

const (
	// NotAScoreLine has neither " vs " nor a digit-dash-digit run.
	NotAScoreLine ScoreFormat = iota
	// ParsedAsVsFormat is "Home vs Away", a fixture without a score.
	ParsedAsVsFormat
	// ParsedAsScoreFormat is "Home 3-1 Away", a finished result.
	ParsedAsScoreFormat
	// FallbackSingleTeam has a score-like run the pattern could not split;
	// the whole title becomes the home side and the match is assumed live.
	FallbackSingleTeam
)

func (f ScoreFormat) String() string {
	switch f {
	case ParsedAsVsFormat:
		return "vs"
	case ParsedAsScoreFormat:
		return "score"
	case FallbackSingleTeam:
		return "fallback"
	default:
		return "none"
	}
}

const vsSeparator = " vs "

var (
	scoreRunExpr  = regexp.MustCompile(`\d+-\d+`)
	scoreLineExpr = regexp.MustCompile(`(.+?)\s(\d+)-(\d+)\s(.+)`)
)

// ParsedTitle is the outcome of classifying a headline.
type ParsedTitle struct {
	Format    ScoreFormat
	Home      string
	Away      string
	HomeScore int
	AwayScore int
}

// Status maps the parse variant onto a match status.
func (p ParsedTitle) Status() domain.MatchStatus {
	switch p.Format {
	case ParsedAsScoreFormat:
		return domain.StatusFinished
	case FallbackSingleTeam:
		return domain.StatusLive
	default:
		return domain.StatusUpcoming
	}
}

// ParseScoreTitle classifies a headline such as "Man City 3-1 Arsenal".
func ParseScoreTitle(title string) ParsedTitle {
	if home, away, ok := strings.Cut(title, vsSeparator); ok {
		away, _, _ = strings.Cut(away, vsSeparator)
		return ParsedTitle{
			Format: ParsedAsVsFormat,
			Home:   strings.TrimSpace(home),
			Away:   strings.TrimSpace(away),
		}
	}

	if !scoreRunExpr.MatchString(title) {
		return ParsedTitle{Format: NotAScoreLine}
	}

	if m := scoreLineExpr.FindStringSubmatch(title); m != nil {
		homeScore, errHome := strconv.Atoi(m[2])
		awayScore, errAway := strconv.Atoi(m[3])
		if errHome == nil && errAway == nil {
			return ParsedTitle{
				Format:    ParsedAsScoreFormat,
				Home:      strings.TrimSpace(m[1]),
				Away:      strings.TrimSpace(m[4]),
				HomeScore: homeScore,
				AwayScore: awayScore,
			}
		}
	}

	return ParsedTitle{Format: FallbackSingleTeam, Home: strings.TrimSpace(title)}
}

// Scores shapes entries whose headline looks like a fixture or result.
func (n *Normalizer) Scores(entries []domain.FeedEntry) []domain.ScoreItem {
	var items []domain.ScoreItem
	for _, entry := range entries {
		parsed := ParseScoreTitle(entry.Title)
		if parsed.Format == NotAScoreLine {
			continue
		}

		description := CleanText(entry.Description)
		league := truncateRunes(description, 20)
		if league == "" {
			league = "Global"
		}

		status := parsed.Status()
		clock := "FT"
		if status != domain.StatusFinished {
			clock = n.publishedAt(entry).Format("15:04")
		}

		items = append(items, domain.ScoreItem{
			ID:             Identity(entry.Link),
			HomeTeam:       parsed.Home,
			AwayTeam:       parsed.Away,
			HomeScore:      parsed.HomeScore,
			AwayScore:      parsed.AwayScore,
			Status:         status,
			Time:           clock,
			League:         league,
			RawDescription: description,
		})
	}
	return items
}

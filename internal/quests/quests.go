// Package quests builds each participant's three micro-quests: two fixed
// ones parameterized by community settings and a third derived from the
// track, generated by a model when one is reachable. The provider never
// fails its caller; every internal error degrades to static content.
package quests

import (
	"context"
	"fmt"
	"os"

	"log/slog"

	"github.com/communityforge/sprint/internal/config"
	"github.com/communityforge/sprint/pkg/models"
)

// fallbackQuests is the static per-track table used whenever generation is
// unavailable or returns something unusable.
var fallbackQuests = map[string]models.Quest{
	"AI/Data": {
		Title:        "Mini Data Viz",
		Instructions: "Download a small public dataset and create a simple chart. Upload a PNG or share a notebook/gist link.",
	},
	"Dev": {
		Title:        "Hello Testnet Tx",
		Instructions: "Send a testnet transaction or run a hello-world starter. Paste the tx hash or upload a screenshot of the confirmed tx.",
	},
	"Design": {
		Title:        "Bounty Card Mockup",
		Instructions: "Design a quick poster, banner or bounty card for a community sprint. Upload a PNG/JPG of your mock.",
	},
	"Growth": {
		Title:        "Tweet Hooks",
		Instructions: "Write 3 tweet ideas to promote the onboarding sprint. Paste the text or share a public doc link.",
	},
}

var genericFallback = models.Quest{
	Title:        "Share Your Why",
	Instructions: "Post a short note on why you are joining the community and paste the link or text here.",
}

// defaultTrack is used when track suggestion cannot do better.
const defaultTrack = "Growth"

// Provider assembles micro-quests. A nil engine is valid and means static
// content only.
type Provider struct {
	engine    *Engine
	community config.CommunityConfig
	logger    *slog.Logger
}

func NewProvider(engine *Engine, community config.CommunityConfig, logger *slog.Logger) *Provider {
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(os.Stdout, nil))
	}
	return &Provider{engine: engine, community: community, logger: logger}
}

// ForTrack returns exactly three quests for the track, in order. The first
// two are fixed; the third comes from the engine when possible, else the
// fallback table, else the generic fallback.
func (p *Provider) ForTrack(ctx context.Context, track string) []models.Quest {
	quests := []models.Quest{
		{
			Title:        "Join the community Telegram",
			Instructions: fmt.Sprintf("Join %s and paste your @username. Upload a screenshot of the joined group.", p.community.TelegramLink),
		},
		{
			Title:        fmt.Sprintf("Follow %s on X", p.community.XHandle),
			Instructions: fmt.Sprintf("Follow %s and paste your handle. Upload a screenshot of the follow.", p.community.XHandle),
		},
	}

	return append(quests, p.thirdQuest(ctx, track))
}

func (p *Provider) thirdQuest(ctx context.Context, track string) models.Quest {
	if p.engine != nil {
		q, err := p.engine.GenerateQuest(ctx, track)
		if err == nil && q.Title != "" && q.Instructions != "" {
			return *q
		}
		if err != nil {
			p.logger.Warn("quest generation failed, using fallback", slog.String("track", track), slog.Any("err", err))
		}
	}
	if q, ok := fallbackQuests[track]; ok {
		return q
	}
	return genericFallback
}

// SuggestTrack picks a track for the profile, falling back to the default
// when no engine is available or the model's answer is unusable. It never
// returns an error.
func (p *Provider) SuggestTrack(ctx context.Context, profile *models.User) string {
	if p.engine == nil || profile == nil {
		return defaultTrack
	}
	t, err := p.engine.SuggestTrack(ctx, profile)
	if err != nil {
		p.logger.Warn("track suggestion failed, using default", slog.Any("err", err))
		return defaultTrack
	}
	return t
}

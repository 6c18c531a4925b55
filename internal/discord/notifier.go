package discord

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/bwmarrin/discordgo"

	"github.com/clanworks/clanbot/app/events"
	sharedtypes "github.com/clanworks/clanbot/app/shared/types"
	"github.com/clanworks/clanbot/internal/attr"
)

const (
	approveCustomIDPrefix = "promotion_approve"
	denyCustomIDPrefix    = "promotion_deny"
)

// Notifier is the human-approval surface. It posts pending promotions to the
// admin channel as embeds with approve/deny buttons and turns button presses
// into promotion events on the bus.
type Notifier struct {
	session        *discordgo.Session
	adminChannelID string
	publisher      message.Publisher
	logger         *slog.Logger
}

// NewNotifier creates a Notifier and registers the interaction handler on the
// session.
func NewNotifier(session *discordgo.Session, adminChannelID string, publisher message.Publisher, logger *slog.Logger) *Notifier {
	n := &Notifier{
		session:        session,
		adminChannelID: adminChannelID,
		publisher:      publisher,
		logger:         logger,
	}
	session.AddHandler(n.handleInteraction)
	return n
}

// PresentPendingPromotion posts an approval request for the member. Repeated
// eligibility detections for the same member and target produce repeated
// posts; the resolution path is idempotent so double approval is harmless.
func (n *Notifier) PresentPendingPromotion(ctx context.Context, p events.PromotionEligibilityDetectedPayloadV1) error {
	embed := &discordgo.MessageEmbed{
		Title: "Promotion pending approval",
		Color: 0xf1c40f,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Member", Value: fmt.Sprintf("<@%s>", p.DiscordID), Inline: true},
			{Name: "Proposed rank", Value: p.TargetRankName, Inline: true},
			{Name: "Points", Value: fmt.Sprintf("%d / %d", p.Points, p.PointsRequired), Inline: true},
		},
		Timestamp: p.DetectedAt.UTC().Format("2006-01-02T15:04:05Z"),
	}

	approveID := fmt.Sprintf("%s:%s:%d", approveCustomIDPrefix, p.DiscordID, p.TargetRankOrder)
	denyID := fmt.Sprintf("%s:%s:%d", denyCustomIDPrefix, p.DiscordID, p.TargetRankOrder)

	_, err := n.session.ChannelMessageSendComplex(n.adminChannelID, &discordgo.MessageSend{
		Embed: embed,
		Components: []discordgo.MessageComponent{
			discordgo.ActionsRow{
				Components: []discordgo.MessageComponent{
					discordgo.Button{Label: "Approve", Style: discordgo.SuccessButton, CustomID: approveID},
					discordgo.Button{Label: "Deny", Style: discordgo.DangerButton, CustomID: denyID},
				},
			},
		},
	}, discordgo.WithContext(ctx))
	if err != nil {
		return classifyErr(err)
	}

	n.logger.InfoContext(ctx, "Posted pending promotion",
		attr.String("discord_id", string(p.DiscordID)),
		attr.String("target_rank", p.TargetRankName),
	)
	return nil
}

// ReportSweepSummary posts a sweep summary to the admin channel.
func (n *Notifier) ReportSweepSummary(ctx context.Context, p events.RankSyncCompletedPayloadV1) error {
	embed := &discordgo.MessageEmbed{
		Title: "Rank sync complete",
		Color: 0x2ecc71,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Updated", Value: strconv.Itoa(p.Updated), Inline: true},
			{Name: "In sync", Value: strconv.Itoa(p.InSync), Inline: true},
			{Name: "Skipped", Value: strconv.Itoa(p.Skipped), Inline: true},
			{Name: "Failed", Value: strconv.Itoa(p.Failed), Inline: true},
		},
	}
	if _, err := n.session.ChannelMessageSendEmbed(n.adminChannelID, embed, discordgo.WithContext(ctx)); err != nil {
		return classifyErr(err)
	}
	return nil
}

func (n *Notifier) handleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionMessageComponent {
		return
	}
	customID := i.MessageComponentData().CustomID

	var topic string
	var rest string
	switch {
	case strings.HasPrefix(customID, approveCustomIDPrefix+":"):
		topic = events.PromotionApprovedV1
		rest = strings.TrimPrefix(customID, approveCustomIDPrefix+":")
	case strings.HasPrefix(customID, denyCustomIDPrefix+":"):
		topic = events.PromotionDeniedV1
		rest = strings.TrimPrefix(customID, denyCustomIDPrefix+":")
	default:
		return
	}

	parts := strings.SplitN(rest, ":", 2)
	if len(parts) != 2 {
		n.logger.Warn("Malformed promotion button ID", attr.String("custom_id", customID))
		return
	}
	order, err := strconv.Atoi(parts[1])
	if err != nil {
		n.logger.Warn("Malformed promotion button rank order", attr.String("custom_id", customID))
		return
	}

	reviewerID := sharedtypes.DiscordID("")
	if i.Member != nil && i.Member.User != nil {
		reviewerID = sharedtypes.DiscordID(i.Member.User.ID)
	}

	var payload []byte
	if topic == events.PromotionApprovedV1 {
		payload, err = json.Marshal(events.PromotionApprovedPayloadV1{
			DiscordID:       sharedtypes.DiscordID(parts[0]),
			TargetRankOrder: sharedtypes.RankOrder(order),
			ReviewerID:      reviewerID,
		})
	} else {
		payload, err = json.Marshal(events.PromotionDeniedPayloadV1{
			DiscordID:       sharedtypes.DiscordID(parts[0]),
			TargetRankOrder: sharedtypes.RankOrder(order),
			ReviewerID:      reviewerID,
		})
	}
	if err != nil {
		n.logger.Error("Failed to marshal promotion decision", attr.Error(err))
		return
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	if err := n.publisher.Publish(topic, msg); err != nil {
		n.logger.Error("Failed to publish promotion decision",
			attr.String("topic", topic),
			attr.Error(err),
		)
		return
	}

	ack := "Promotion approved, resolving."
	if topic == events.PromotionDeniedV1 {
		ack = "Promotion denied."
	}
	if err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Content: ack},
	}); err != nil {
		n.logger.Warn("Failed to acknowledge promotion decision", attr.Error(err))
	}
}

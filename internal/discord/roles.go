// Package discord adapts the chat platform: role management, the
// human-approval surface, and log forwarding, all over a single discordgo
// session.
package discord

import (
	"context"
	"log/slog"

	"github.com/bwmarrin/discordgo"

	"github.com/clanworks/clanbot/internal/attr"
)

// RoleManager manages guild roles that mirror ladder ranks.
type RoleManager struct {
	session *discordgo.Session
	guildID string
	logger  *slog.Logger
}

// NewRoleManager creates a RoleManager bound to one guild.
func NewRoleManager(session *discordgo.Session, guildID string, logger *slog.Logger) *RoleManager {
	return &RoleManager{
		session: session,
		guildID: guildID,
		logger:  logger,
	}
}

// FindRole returns the ID of the guild role with the given name, or "" when
// no such role exists.
func (m *RoleManager) FindRole(ctx context.Context, name string) (string, error) {
	roles, err := m.session.GuildRoles(m.guildID, discordgo.WithContext(ctx))
	if err != nil {
		return "", classifyErr(err)
	}
	for _, role := range roles {
		if role.Name == name {
			return role.ID, nil
		}
	}
	return "", nil
}

// EnsureRole returns the ID of the named role, creating it on first use.
func (m *RoleManager) EnsureRole(ctx context.Context, name string) (string, error) {
	id, err := m.FindRole(ctx, name)
	if err != nil {
		return "", err
	}
	if id != "" {
		return id, nil
	}

	role, err := m.session.GuildRoleCreate(m.guildID, &discordgo.RoleParams{Name: name}, discordgo.WithContext(ctx))
	if err != nil {
		return "", classifyErr(err)
	}

	m.logger.InfoContext(ctx, "Created rank role",
		attr.String("role_name", name),
		attr.String("role_id", role.ID),
	)
	return role.ID, nil
}

// MemberHoldsRole reports whether the guild member currently has the role.
func (m *RoleManager) MemberHoldsRole(ctx context.Context, userID, roleID string) (bool, error) {
	member, err := m.session.GuildMember(m.guildID, userID, discordgo.WithContext(ctx))
	if err != nil {
		return false, classifyErr(err)
	}
	for _, id := range member.Roles {
		if id == roleID {
			return true, nil
		}
	}
	return false, nil
}

// AddRole grants the role to the member.
func (m *RoleManager) AddRole(ctx context.Context, userID, roleID string) error {
	if err := m.session.GuildMemberRoleAdd(m.guildID, userID, roleID, discordgo.WithContext(ctx)); err != nil {
		return classifyErr(err)
	}
	return nil
}

// RemoveRole revokes the role from the member.
func (m *RoleManager) RemoveRole(ctx context.Context, userID, roleID string) error {
	if err := m.session.GuildMemberRoleRemove(m.guildID, userID, roleID, discordgo.WithContext(ctx)); err != nil {
		return classifyErr(err)
	}
	return nil
}

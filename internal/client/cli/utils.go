package cli

import "github.com/rootpulse/pulse-cli/internal/client/models"

func userTierPatch(tier models.MembershipTier) models.UserPatch {
	return models.UserPatch{MembershipTier: &tier}
}

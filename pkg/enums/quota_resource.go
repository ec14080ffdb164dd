package enums

import "fmt"

// QuotaResource names a metered resource gated by the subscription plan.
type QuotaResource string

const (
	QuotaResourceCampaigns     QuotaResource = "campaigns"
	QuotaResourceAdSets        QuotaResource = "ad_sets"
	QuotaResourceAds           QuotaResource = "ads"
	QuotaResourceTeamMembers   QuotaResource = "team_members"
	QuotaResourceStorageMB     QuotaResource = "storage_mb"
	QuotaResourceAPICalls      QuotaResource = "api_calls"
	QuotaResourceAIGenerations QuotaResource = "ai_generations"
)

var validQuotaResources = []QuotaResource{
	QuotaResourceCampaigns,
	QuotaResourceAdSets,
	QuotaResourceAds,
	QuotaResourceTeamMembers,
	QuotaResourceStorageMB,
	QuotaResourceAPICalls,
	QuotaResourceAIGenerations,
}

// String implements fmt.Stringer.
func (q QuotaResource) String() string {
	return string(q)
}

// IsValid reports whether the value is a known QuotaResource.
func (q QuotaResource) IsValid() bool {
	for _, candidate := range validQuotaResources {
		if candidate == q {
			return true
		}
	}
	return false
}

// ParseQuotaResource converts raw input into a QuotaResource.
func ParseQuotaResource(value string) (QuotaResource, error) {
	for _, candidate := range validQuotaResources {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid quota resource %q", value)
}

// QuotaResources returns every defined resource in declaration order.
func QuotaResources() []QuotaResource {
	out := make([]QuotaResource, len(validQuotaResources))
	copy(out, validQuotaResources)
	return out
}

package teams

import (
	"github.com/postlane/postlane-backend/pkg/db/models"
)

type memberWithTeamRow struct {
	models.TeamMember
	TeamName string `gorm:"column:team_name"`
}

func memberWithTeamFromRow(row memberWithTeamRow) MemberWithTeam {
	return MemberWithTeam{
		MemberID:  row.ID,
		TeamID:    row.TeamID,
		UserID:    row.UserID,
		TeamName:  row.TeamName,
		Role:      row.Role,
		CreatedAt: row.CreatedAt,
	}
}

func memberRowsToDTO(rows []memberWithTeamRow) []MemberWithTeam {
	out := make([]MemberWithTeam, 0, len(rows))
	for _, row := range rows {
		out = append(out, memberWithTeamFromRow(row))
	}
	return out
}

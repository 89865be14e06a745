package playerdata

// SlashDetail is the endless-tower document as the upstream API returns it.
type SlashDetail struct {
	IsUnlock       bool              `json:"isUnlock"`
	SeasonEndTime  int64             `json:"seasonEndTime,omitempty"`
	DifficultyList []SlashDifficulty `json:"difficultyList"`
}

type SlashDifficulty struct {
	Difficulty     int              `json:"difficulty"`
	DifficultyName string           `json:"difficultyName,omitempty"`
	ChallengeList  []SlashChallenge `json:"challengeList"`
}

type SlashChallenge struct {
	ChallengeID int         `json:"challengeId"`
	Score       int         `json:"score"`
	HalfList    []SlashHalf `json:"halfList"`
}

type SlashHalf struct {
	BuffIcon string      `json:"buffIcon,omitempty"`
	BuffName string      `json:"buffName,omitempty"`
	Score    int         `json:"score"`
	RoleList []SlashRole `json:"roleList"`
}

type SlashRole struct {
	RoleID  int    `json:"roleId"`
	IconURL string `json:"iconUrl,omitempty"`
}

// RankedDifficulty is the difficulty whose first challenge feeds the group rank.
const RankedDifficulty = 2

// RankedChallenge returns the first challenge of RankedDifficulty.
func (s *SlashDetail) RankedChallenge() (SlashChallenge, bool) {
	if s == nil {
		return SlashChallenge{}, false
	}
	for _, d := range s.DifficultyList {
		if d.Difficulty != RankedDifficulty {
			continue
		}
		if len(d.ChallengeList) == 0 {
			return SlashChallenge{}, false
		}
		return d.ChallengeList[0], true
	}
	return SlashChallenge{}, false
}

// Score sums the half scores of the ranked challenge; 0 when absent.
func (s *SlashDetail) Score() int {
	c, ok := s.RankedChallenge()
	if !ok {
		return 0
	}
	total := 0
	for _, h := range c.HalfList {
		total += h.Score
	}
	return total
}

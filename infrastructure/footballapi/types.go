package footballapi

import (
	"encoding/json"
	"strconv"

	"footycards/domain/entities"
)

// TopScorersResponse is the body of /players/topscorers
type TopScorersResponse struct {
	Results  int             `json:"results"`
	Errors   json.RawMessage `json:"errors"`
	Response []PlayerRecord  `json:"response"`
}

type PlayerRecord struct {
	Player     PlayerInfo        `json:"player"`
	Statistics []PlayerStatistic `json:"statistics"`
}

type PlayerInfo struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Firstname   string `json:"firstname"`
	Lastname    string `json:"lastname"`
	Age         int    `json:"age"`
	Nationality string `json:"nationality"`
	Photo       string `json:"photo"`
}

type PlayerStatistic struct {
	Team struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	} `json:"team"`
	League struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	} `json:"league"`
	Games struct {
		// the API spells it this way
		Appearances *int    `json:"appearences"`
		Position    string  `json:"position"`
		Rating      *string `json:"rating"`
	} `json:"games"`
	Goals struct {
		Total   *int `json:"total"`
		Assists *int `json:"assists"`
	} `json:"goals"`
}

func intOrZero(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}

func (r *TopScorersResponse) toPlayerStats() []entities.PlayerStat {
	stats := make([]entities.PlayerStat, 0, len(r.Response))
	for _, rec := range r.Response {
		stat := entities.PlayerStat{
			Name:        rec.Player.Name,
			Nationality: rec.Player.Nationality,
			Age:         rec.Player.Age,
			PhotoURL:    rec.Player.Photo,
		}
		if len(rec.Statistics) > 0 {
			s := rec.Statistics[0]
			stat.Team = s.Team.Name
			stat.League = s.League.Name
			stat.Position = s.Games.Position
			stat.Appearances = intOrZero(s.Games.Appearances)
			stat.Goals = intOrZero(s.Goals.Total)
			stat.Assists = intOrZero(s.Goals.Assists)
			if s.Games.Rating != nil {
				if rating, err := strconv.ParseFloat(*s.Games.Rating, 64); err == nil {
					stat.Rating = rating
				}
			}
		}
		stats = append(stats, stat)
	}
	return stats
}

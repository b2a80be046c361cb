package main

// AchievementDef describes one unlockable achievement
type AchievementDef struct {
	ID          string
	Name        string
	Description string
}

var Achievements = []AchievementDef{
	{"first_point", "First Contact", "Score your first point"},
	{"first_win", "Rookie Victory", "Win your first match"},
	{"victor", "Victor", "Win 10 matches"},
	{"champion", "Champion", "Win 50 matches"},
	{"sharpshooter", "Sharpshooter", "Score 100 total points"},
	{"centurion", "Centurion", "Score 500 total points"},
	{"shutout", "Flawless Deflection", "Win a match without conceding a point"},
	{"marathon", "Marathoner", "Complete 25 matches"},
}

// CheckAchievements checks whether the just-finished match unlocks anything
// new for a player. Returns the newly unlocked achievements.
func CheckAchievements(db *DB, playerID int64, pointsFor, pointsAgainst int, won bool) []AchievementDef {
	if db == nil {
		return nil
	}

	stats, err := db.GetStats(playerID)
	if err != nil || stats == nil {
		return nil
	}

	existing, err := db.GetAchievements(playerID)
	if err != nil {
		return nil
	}
	has := make(map[string]bool, len(existing))
	for _, id := range existing {
		has[id] = true
	}

	check := func(id string) bool {
		if has[id] {
			return false
		}
		switch id {
		case "first_point":
			return stats.PointsFor >= 1
		case "first_win":
			return stats.Wins >= 1
		case "victor":
			return stats.Wins >= 10
		case "champion":
			return stats.Wins >= 50
		case "sharpshooter":
			return stats.PointsFor >= 100
		case "centurion":
			return stats.PointsFor >= 500
		case "shutout":
			return won && pointsAgainst == 0
		case "marathon":
			return stats.Matches >= 25
		}
		return false
	}

	var unlocked []AchievementDef
	for _, def := range Achievements {
		if check(def.ID) {
			if fresh, err := db.UnlockAchievement(playerID, def.ID); err == nil && fresh {
				unlocked = append(unlocked, def)
			}
		}
	}
	return unlocked
}

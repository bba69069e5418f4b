package store

import "github.com/vaarthai/vithai/internal/models"

// DemoCatalog is written when a backend starts empty.
func DemoCatalog() models.Catalog {
	return models.Catalog{Messages: []models.Message{
		{
			ID:        "1",
			Title:     "ஞாயிறு ஆராதனை - விசுவாசத்தின் மேன்மை",
			Date:      "2024-05-12",
			Duration:  "45:20",
			AudioURL:  "https://www.soundhelix.com/examples/mp3/SoundHelix-Song-1.mp3",
			Thumbnail: "https://picsum.photos/seed/church1/400/400",
			SubMessages: []models.Message{
				{
					ID:        "1-1",
					Title:     "பகுதி 1: விசுவாசம் என்றால் என்ன?",
					Date:      "2024-05-12",
					Duration:  "22:10",
					AudioURL:  "https://www.soundhelix.com/examples/mp3/SoundHelix-Song-2.mp3",
					Thumbnail: "https://picsum.photos/seed/part1/400/400",
				},
				{
					ID:        "1-2",
					Title:     "பகுதி 2: விசுவாசத்தின் கிரியைகள்",
					Date:      "2024-05-12",
					Duration:  "23:10",
					AudioURL:  "https://www.soundhelix.com/examples/mp3/SoundHelix-Song-3.mp3",
					Thumbnail: "https://picsum.photos/seed/part2/400/400",
				},
			},
		},
		{
			ID:        "2",
			Title:     "குடும்பக் கூட்டம் - அன்பின் முக்கியத்துவம்",
			Date:      "2024-05-10",
			Duration:  "38:15",
			AudioURL:  "https://www.soundhelix.com/examples/mp3/SoundHelix-Song-4.mp3",
			Thumbnail: "https://picsum.photos/seed/church2/400/400",
		},
		{
			ID:        "3",
			Title:     "வேதாகம படிப்பு - பவுலின் கடிதங்கள்",
			Subtitle:  "ரோமர் நிருபம் ஆழமான ஆய்வு",
			Date:      "2024-05-08",
			Duration:  "52:40",
			AudioURL:  "https://www.soundhelix.com/examples/mp3/SoundHelix-Song-5.mp3",
			Thumbnail: "https://picsum.photos/seed/church3/400/400",
			SubMessages: []models.Message{
				{
					ID:        "3-1",
					Title:     "அதிகாரம் 1: அறிமுகம்",
					Date:      "2024-05-08",
					Duration:  "26:20",
					AudioURL:  "https://www.soundhelix.com/examples/mp3/SoundHelix-Song-6.mp3",
					Thumbnail: "https://picsum.photos/seed/romans1/400/400",
				},
			},
		},
	}}
}

package seed

import (
	"context"
	"fmt"
	"time"

	"github.com/oksasatya/eventhub/internal/domain/entity"
	"github.com/oksasatya/eventhub/internal/domain/repository"
)

var (
	_ repository.EventSource   = (*Source)(nil)
	_ repository.MessageSource = (*Source)(nil)
)

func cover(path string) string {
	return "https://images.pexels.com/photos/" + path + "?auto=compress&cs=tinysrgb&w=1260&h=750&dpr=1"
}

func photo(id int) string {
	return fmt.Sprintf("%d/pexels-photo-%d.jpeg", id, id)
}

// Events builds the fixture event universe with dates relative to anchor.
// Status is derived against anchor.
func Events(anchor time.Time) []entity.Event {
	today := anchor
	tomorrow := today.AddDate(0, 0, 1)
	nextWeek := today.AddDate(0, 0, 7)
	nextMonth := today.AddDate(0, 1, 0)
	yesterday := today.AddDate(0, 0, -1)
	lastWeek := today.AddDate(0, 0, -7)
	lastMonth := today.AddDate(0, -1, 0)

	events := []entity.Event{
		{
			ID:               "1",
			Title:            "Tech Conference 2025",
			Description:      "Join us for the largest tech conference of the year! This event features keynote speakers from top tech companies, interactive workshops, networking opportunities, and the latest product demos. Perfect for developers, designers, and tech enthusiasts looking to stay on the cutting edge of technology trends.",
			ShortDescription: "The largest tech gathering with industry leaders and innovative workshops.",
			Category:         entity.CategoryConference,
			StartDate:        nextMonth,
			EndDate:          nextMonth.Add(6 * time.Hour),
			Location:         "San Francisco Convention Center",
			CoverImage:       cover(photo(2774556)),
			CreatedBy:        "1",
			Participants:     []string{"1", "2", "3", "4"},
			CreatedAt:        lastMonth,
		},
		{
			ID:               "2",
			Title:            "Weekend Coding Workshop",
			Description:      "Intensive two-day workshop on full-stack development. Learn modern JavaScript frameworks, backend technologies, and deployment strategies. Suitable for intermediate developers looking to expand their skill set. Bring your laptop and be ready to code! Lunch and refreshments will be provided.",
			ShortDescription: "Hands-on coding sessions focusing on full-stack web development.",
			Category:         entity.CategoryWorkshop,
			StartDate:        tomorrow,
			EndDate:          tomorrow.Add(4 * time.Hour),
			Location:         "Downtown Innovation Hub",
			CoverImage:       cover("7108/notebook-computer-chill-relax.jpg"),
			CreatedBy:        "2",
			Participants:     []string{"1", "2", "5"},
			CreatedAt:        lastWeek,
		},
		{
			ID:               "3",
			Title:            "Summer Networking Mixer",
			Description:      "Expand your professional network in a relaxed setting. This evening event includes light appetizers, drinks, and structured networking activities designed to help you make meaningful connections. Open to professionals from all industries. Business casual attire recommended.",
			ShortDescription: "Casual evening networking event for professionals across industries.",
			Category:         entity.CategorySocial,
			StartDate:        nextWeek,
			EndDate:          nextWeek.Add(8 * time.Hour),
			Location:         "Skyline Rooftop Lounge",
			CoverImage:       cover(photo(2962142)),
			CreatedBy:        "3",
			Participants:     []string{"2", "3", "4"},
			CreatedAt:        yesterday,
		},
		{
			ID:               "4",
			Title:            "Annual Jazz Festival",
			Description:      "Experience a full day of amazing jazz performances from both established and emerging artists. Multiple stages, food vendors, and art exhibitions make this a complete cultural experience. Family-friendly event with dedicated kids' activities area. Don't forget to bring a lawn chair or blanket!",
			ShortDescription: "Day-long celebration of jazz music with multiple performance stages.",
			Category:         entity.CategoryConcert,
			StartDate:        today,
			EndDate:          today.Add(3 * time.Hour),
			Location:         "Central Park Amphitheater",
			CoverImage:       cover(photo(1190297)),
			CreatedBy:        "4",
			Participants:     []string{"1", "4", "5"},
			CreatedAt:        lastWeek,
		},
		{
			ID:               "5",
			Title:            "Charity 5K Run",
			Description:      "Run for a cause! This annual 5K raises funds for local education initiatives. Suitable for all fitness levels - run, jog, or walk. Registration includes a t-shirt, finisher's medal, and post-race refreshments. Meet at the starting line 30 minutes before the race begins.",
			ShortDescription: "Community 5K run supporting local education programs.",
			Category:         entity.CategorySports,
			StartDate:        nextWeek,
			EndDate:          nextWeek.Add(8 * time.Hour),
			Location:         "Riverside Park Trail",
			CoverImage:       cover(photo(2774589)),
			CreatedBy:        "5",
			Participants:     []string{"3", "5"},
			CreatedAt:        today,
		},
		{
			ID:               "6",
			Title:            "Photography Exhibition",
			Description:      "Showcasing the work of emerging photographers exploring themes of urban life and nature. The exhibition features over 50 prints and digital installations. Guided tours available twice daily. Opening night includes a reception with the artists and complimentary refreshments.",
			ShortDescription: "Visual arts exhibition featuring works from emerging photographers.",
			Category:         entity.CategoryOther,
			StartDate:        lastWeek,
			EndDate:          lastWeek.Add(3 * time.Hour),
			Location:         "Modern Art Gallery",
			CoverImage:       cover(photo(3075564)),
			CreatedBy:        "2",
			Participants:     []string{"1", "2", "3", "4", "5"},
			CreatedAt:        lastMonth,
		},
		{
			ID:               "7",
			Title:            "Product Launch Party",
			Description:      "Be among the first to experience our revolutionary new product! The evening includes a detailed presentation, hands-on demos, and exclusive offers for attendees. Networking opportunities with industry professionals and the development team. Registration required as space is limited.",
			ShortDescription: "Exclusive evening event unveiling an innovative new product.",
			Category:         entity.CategorySocial,
			StartDate:        nextMonth,
			EndDate:          nextMonth.Add(6 * time.Hour),
			Location:         "Tech Innovation Center",
			CoverImage:       cover(photo(7148384)),
			CreatedBy:        "1",
			Participants:     []string{"1", "2"},
			CreatedAt:        yesterday,
		},
		{
			ID:               "8",
			Title:            "Data Science Symposium",
			Description:      "A day of discussions and presentations on the latest in data science, AI, and machine learning. Features keynote speakers from research institutions and industry leaders. Includes breakout sessions on specialized topics and a poster presentation session for graduate students. Continental breakfast and lunch provided.",
			ShortDescription: "Academic conference on advancements in AI and data analysis.",
			Category:         entity.CategoryConference,
			StartDate:        lastMonth,
			EndDate:          lastMonth.Add(4 * time.Hour),
			Location:         "University Research Center",
			CoverImage:       cover(photo(5940721)),
			CreatedBy:        "3",
			Participants:     []string{"1", "3", "5"},
			CreatedAt:        lastMonth,
		},
	}
	for i := range events {
		events[i] = events[i].WithStatus(anchor)
	}
	return events
}

// Source serves the fixture event and message universes. Each call returns
// fresh copies.
type Source struct {
	anchor time.Time
}

func NewSource(anchor time.Time) *Source {
	return &Source{anchor: anchor}
}

func (s *Source) Events(ctx context.Context) ([]entity.Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return Events(s.anchor), nil
}

func (s *Source) Messages(ctx context.Context) ([]entity.ChatMessage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return Messages(), nil
}

package seed

import (
	"time"

	"github.com/oksasatya/eventhub/internal/domain/entity"
)

func at(d, h, m int) time.Time {
	return time.Date(2024, time.May, d, h, m, 0, 0, time.UTC)
}

// Messages returns the fixture chat log in insertion order.
func Messages() []entity.ChatMessage {
	return []entity.ChatMessage{
		{ID: "1", EventID: "1", UserID: "1", Content: "Looking forward to the conference! Anyone know the parking situation?", Timestamp: at(15, 9, 30)},
		{ID: "2", EventID: "1", UserID: "2", Content: "There's a parking garage across the street. $15 for the day.", Timestamp: at(15, 9, 35)},
		{ID: "3", EventID: "1", UserID: "3", Content: "Thanks for the info! I'm planning to arrive around 8:30.", Timestamp: at(15, 9, 40)},
		{ID: "4", EventID: "1", UserID: "4", Content: "Does anyone know if the keynote will be recorded?", Timestamp: at(15, 10, 15)},
		{
			ID: "5", EventID: "1", UserID: "1",
			Content:     "Yes, all sessions will be available online a week after the event.",
			Timestamp:   at(15, 10, 20),
			Attachments: []entity.Attachment{{Type: entity.AttachmentLink, URL: "https://techconference.example.com/recordings"}},
		},
		{ID: "6", EventID: "2", UserID: "1", Content: "What should we prepare before the workshop?", Timestamp: at(16, 14, 0)},
		{ID: "7", EventID: "2", UserID: "2", Content: "Just make sure you have Node.js and VSCode installed. I'll send a full setup guide later today.", Timestamp: at(16, 14, 10)},
		{ID: "8", EventID: "3", UserID: "2", Content: "Who else is attending from the marketing department?", Timestamp: at(17, 11, 30)},
		{
			ID: "9", EventID: "3", UserID: "3",
			Content:     "I'll be there with a few colleagues from design team!",
			Timestamp:   at(17, 11, 45),
			Attachments: []entity.Attachment{{Type: entity.AttachmentImage, URL: "https://images.pexels.com/photos/3184338/pexels-photo-3184338.jpeg?auto=compress&cs=tinysrgb&w=300"}},
		},
		{ID: "10", EventID: "4", UserID: "4", Content: "The lineup for this year looks amazing!", Timestamp: at(18, 9, 0)},
		{ID: "11", EventID: "5", UserID: "3", Content: "Is there a bag check available at the run?", Timestamp: at(19, 16, 20)},
		{ID: "12", EventID: "5", UserID: "5", Content: "Yes, there will be a secure area to leave small items during the race.", Timestamp: at(19, 16, 25)},
	}
}

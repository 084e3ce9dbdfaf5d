package service

import (
	"time"

	"github.com/noah-isme/science-hub-api/internal/models"
)

func stringPtr(s string) *string { return &s }

func mustTime(raw string) time.Time {
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		panic(err)
	}
	return t
}

// moderationFixtures returns the records seeded into an empty review queue.
func moderationFixtures() []models.ModerationRecord {
	approvedAt := mustTime("2024-01-14T11:30:00Z")
	return []models.ModerationRecord{
		{
			ID:                  "sample_1",
			TeacherName:         "Dr. John Smith",
			TeacherEmail:        "john.smith@example.com",
			MaterialTitle:       "Physics Class 12 Complete Notes",
			MaterialDescription: "Complete physics notes for class 12 covering all chapters with diagrams and solved examples.",
			MaterialSubject:     "physics",
			MaterialClass:       "12",
			MaterialYear:        "2024",
			MaterialLanguage:    "english",
			ResourceType:        models.ResourcePDF,
			CloudLink:           stringPtr("https://drive.google.com/file/sample1"),
			SubmittedAt:         mustTime("2024-01-15T10:30:00Z"),
			Status:              models.StatusPending,
			FileInfo: &models.ModerationFileInfo{
				Name:          "physics_12_notes.pdf",
				Size:          15800000,
				SizeFormatted: "15.1 MB",
				Type:          "application/pdf",
			},
			Pages: 85,
		},
		{
			ID:                  "sample_2",
			TeacherName:         "Prof. Sarah Johnson",
			TeacherEmail:        "sarah.j@example.com",
			MaterialTitle:       "Chemistry Organic Reactions Video Series",
			MaterialDescription: "A comprehensive video series explaining organic chemistry reactions with animations.",
			MaterialSubject:     "chemistry",
			MaterialClass:       "11",
			MaterialYear:        "2024",
			MaterialLanguage:    "english",
			ResourceType:        models.ResourceVideo,
			CloudLink:           stringPtr("https://youtube.com/playlist/sample"),
			SubmittedAt:         mustTime("2024-01-14T14:20:00Z"),
			Status:              models.StatusPending,
			FileInfo: &models.ModerationFileInfo{
				Name:          "organic_chemistry_videos.zip",
				Size:          320000000,
				SizeFormatted: "305 MB",
				Type:          "application/zip",
			},
			Duration: "10 hours",
			Platform: "YouTube",
		},
		{
			ID:                  "sample_3",
			TeacherName:         "Dr. Robert Chen",
			TeacherEmail:        "r.chen@example.com",
			MaterialTitle:       "Biology Diagrams Collection",
			MaterialDescription: "High-quality biology diagrams for class 12 students.",
			MaterialSubject:     "biology",
			MaterialClass:       "12",
			MaterialYear:        "2023",
			MaterialLanguage:    "english",
			ResourceType:        models.ResourceNotes,
			CloudLink:           nil,
			SubmittedAt:         mustTime("2024-01-13T09:15:00Z"),
			Status:              models.StatusApproved,
			FileInfo: &models.ModerationFileInfo{
				Name:          "biology_diagrams.pdf",
				Size:          8500000,
				SizeFormatted: "8.1 MB",
				Type:          "application/pdf",
			},
			Pages:      45,
			AdminNotes: "Excellent quality diagrams. Approved for publishing.",
			ApprovedAt: &approvedAt,
			GitHubURL:  "https://github.com/science-hub/biology-diagrams",
		},
	}
}

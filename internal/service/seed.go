package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/campusshare/campusshare/internal/model"
	"github.com/campusshare/campusshare/internal/repository"
	"github.com/google/uuid"
)

// DemoFileURL is the placeholder file every demo resource links to.
const DemoFileURL = "https://example.com/demo-resource.pdf"

type demoResource struct {
	title, subject, semester, branch, resourceType, description string
}

var demoResources = []demoResource{
	{"CS101: Introduction to Programming Final Paper", "Computer Science", "1", "CSE", model.ResourceTypeQuestionPaper, "Comprehensive final exam paper covering C basics and algorithms."},
	{"Data Structures Handwritten Notes (Lec 1-20)", "Data Structures", "3", "CSE", model.ResourceTypeNote, "Clear, handwritten notes on Trees, Graphs, and Hashmaps."},
	{"AI Project Report: Autonomous Drone Navigation", "Artificial Intelligence", "7", "CSE", model.ResourceTypeProjectReport, "Full report including architecture diagrams and test results."},
	{"Circuit Analysis Previous Year Problems", "Electrical Engineering", "2", "EE", model.ResourceTypeQuestionPaper, "Solved problems from the last 5 years of university exams."},
	{"Thermodynamics Lab Manual & Notes", "Mechanical Engineering", "4", "ME", model.ResourceTypeNote, "Complete lab manual with observations and result calculations."},
	{"Database Systems: SQL Cheat Sheet", "DBMS", "5", "IT", model.ResourceTypeOther, "Quick reference for Joins, Subqueries, and Normalization."},
	{"Compiler Design Assignment: Lexical Analyzer", "Compiler Design", "6", "CSE", model.ResourceTypeSolution, "Implementation details and test cases for the first assignment."},
	{"Mobile App Development: Flutter Basics", "App Development", "5", "CSE", model.ResourceTypeNote, "Introduction to Widgets, State Management, and Navigation."},
	{"Ethical Hacking Workshop Resources", "Cyber Security", "6", "IT", model.ResourceTypeOther, "Tools and techniques shared during the security workshop."},
	{"Strength of Materials Question Bank", "Mechanical Engineering", "3", "ME", model.ResourceTypeQuestionPaper, "Important questions and diagrams for internal assessments."},
}

type SeedService struct {
	resources repository.ResourceRepository
	profiles  repository.ProfileRepository
}

func NewSeedService(resources repository.ResourceRepository, profiles repository.ProfileRepository) *SeedService {
	return &SeedService{
		resources: resources,
		profiles:  profiles,
	}
}

// SeedDemo inserts the demo catalog as public resources owned by userID,
// all or nothing, and returns how many were created. No points are awarded.
func (s *SeedService) SeedDemo(ctx context.Context, userID string) (int, error) {
	if userID == "" {
		return 0, ErrNotAuthenticated
	}

	_, err := s.profiles.ByID(ctx, userID)
	if errors.Is(err, repository.ErrProfileNotFound) {
		return 0, ErrProfileRequired
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get profile: %w", err)
	}

	now := time.Now()
	resources := make([]*model.Resource, len(demoResources))
	for i, d := range demoResources {
		resources[i] = &model.Resource{
			ID:           uuid.New().String(),
			Title:        d.title,
			Description:  d.description,
			ResourceType: d.resourceType,
			Subject:      d.subject,
			Semester:     d.semester,
			Branch:       d.branch,
			FileURL:      DemoFileURL,
			Privacy:      model.PrivacyPublic,
			UploaderID:   userID,
			// Offset by a millisecond each so the seeded order is stable.
			CreatedAt: now.Add(time.Duration(i) * time.Millisecond),
		}
	}

	err = s.resources.CreateMany(ctx, resources)
	if err != nil {
		return 0, fmt.Errorf("failed to seed demo data: %w", err)
	}

	slog.Info("demo data seeded", "user_id", userID, "count", len(resources))
	return len(resources), nil
}

package store

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"

	"tendrilAPI/internal/types/forum"
	"tendrilAPI/internal/types/task"
	"tendrilAPI/internal/types/tip"
)

// SeedUserID owns the starter tasks.
const SeedUserID = "anonymous"

// Seed fills an empty backend with starter tips, forum posts and tasks.
// Each collection is only seeded when it is empty, so calling Seed on every
// start is safe.
func Seed(ctx context.Context, s Store, now time.Time, today civil.Date) error {
	tips, err := s.ListTips(ctx)
	if err != nil {
		return fmt.Errorf("failed to list tips: %w", err)
	}
	if len(tips) == 0 {
		for _, t := range seedTips(now) {
			t.ID = uuid.NewString()
			if err := s.CreateTip(ctx, t); err != nil {
				return fmt.Errorf("failed to seed tip: %w", err)
			}
		}
	}

	posts, err := s.ListPosts(ctx, SeedUserID)
	if err != nil {
		return fmt.Errorf("failed to list posts: %w", err)
	}
	if len(posts) == 0 {
		for _, p := range seedPosts(now) {
			p.ID = uuid.NewString()
			if err := s.CreatePost(ctx, p); err != nil {
				return fmt.Errorf("failed to seed post: %w", err)
			}
		}
	}

	tasks, err := s.ListTasks(ctx, SeedUserID)
	if err != nil {
		return fmt.Errorf("failed to list tasks: %w", err)
	}
	if len(tasks) == 0 {
		for _, t := range seedTasks(now, today) {
			if err := s.SaveTask(ctx, t); err != nil {
				return fmt.Errorf("failed to seed task: %w", err)
			}
		}
	}
	return nil
}

func seedTips(now time.Time) []*tip.Tip {
	day := 24 * time.Hour
	return []*tip.Tip{
		{Content: "Drink a glass of water first thing in the morning to rehydrate after sleep. Add lemon for extra benefits!", Author: "Dr. Sarah Wellness", Category: "Hydration", Likes: 42, CreatedAt: now.Add(-1 * day), IsFeatured: true},
		{Content: "Before getting out of bed, try gentle stretches: cat-cow pose, gentle twists and ankle rotations.", Author: "Yoga Master Mike", Category: "Exercise", Likes: 38, CreatedAt: now.Add(-2 * day), IsFeatured: true},
		{Content: "Take time to chew your food slowly and savor each bite. It improves digestion and helps you feel satisfied.", Author: "Nutrition Expert Lisa", Category: "Nutrition", Likes: 35, CreatedAt: now.Add(-3 * day)},
		{Content: "Avoid screens 30 minutes before bedtime. Try reading a book instead!", Author: "Sleep Coach David", Category: "Sleep", Likes: 29, CreatedAt: now.Add(-4 * day)},
		{Content: "Write down 3 things you're grateful for each day.", Author: "Mental Health Advocate Emma", Category: "Mental Health", Likes: 31, CreatedAt: now.Add(-5 * day), IsFeatured: true},
		{Content: "Try walking meetings: exercise, fresh air and often more creative ideas.", Author: "Productivity Guru Alex", Category: "Work-Life Balance", Likes: 27, CreatedAt: now.Add(-6 * day)},
	}
}

func seedPosts(now time.Time) []*forum.Post {
	user := func(s string) *string { return &s }
	return []*forum.Post{
		{Title: "Tips for Better Sleep", Content: "Establishing a consistent bedtime routine really helps me. I start winding down an hour before bed. Anyone else have good sleep tips to share?", UserID: user("user_123"), CreatedAt: now.Add(-48 * time.Hour), ReactionsCount: 24},
		{Title: "Morning Workout Motivation", Content: "I've been trying to establish a morning workout routine but finding it hard to get out of bed early. What motivates you?", UserID: user("user_456"), CreatedAt: now.Add(-24 * time.Hour), ReactionsCount: 31},
		{Title: "Healthy Recipe Exchange", Content: "Looking for quick, healthy dinner recipes that take under 30 minutes. Any favorites?", UserID: user("user_123"), CreatedAt: now.Add(-6 * time.Hour), ReactionsCount: 18},
		{Title: "Stress Management Techniques", Content: "I've tried deep breathing exercises, but I'm curious about other techniques. What works best for you?", CreatedAt: now.Add(-3 * time.Hour), ReactionsCount: 12},
		{Title: "Building Healthy Habits", Content: "Day 15 of building healthier habits: daily walks and more water. Starting small has been the key.", UserID: user("user_789"), CreatedAt: now.Add(-1 * time.Hour), ReactionsCount: 7},
	}
}

func seedTasks(now time.Time, today civil.Date) []*task.Task {
	desc := func(s string) *string { return &s }
	due := func(offset int) *civil.Date {
		d := today.AddDays(offset)
		return &d
	}
	tasks := []*task.Task{
		{Title: "Morning Meditation", Description: desc("Start the day with 10 minutes of mindfulness meditation"), DueDate: due(0)},
		{Title: "Drink 8 Glasses of Water", Description: desc("Stay hydrated throughout the day"), DueDate: due(0)},
		{Title: "Brush and Floss", Description: desc("Two minutes of brushing, then floss"), DueDate: due(0)},
		{Title: "30-Minute Walk", Description: desc("Take a brisk walk around the neighborhood"), DueDate: due(1)},
		{Title: "Read for 20 Minutes", Description: desc("Read a chapter from your current book"), DueDate: due(2)},
		{Title: "Call Family Member", Description: desc("Check in with a family member or close friend"), DueDate: due(3)},
	}
	for _, t := range tasks {
		t.ID = uuid.NewString()
		t.UserID = SeedUserID
		t.CreatedAt = now
		t.CompletionHistory = map[civil.Date]bool{*t.DueDate: false}
	}
	return tasks
}

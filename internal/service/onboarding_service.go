package service

import (
	"fitacademy_backend/internal/model"
	"fitacademy_backend/internal/repository"
	"fitacademy_backend/internal/util"
)

type Milestone string

const (
	MilestoneWelcomeVideo Milestone = "welcome_video"
	MilestoneGoalSet      Milestone = "goal_set"
	MilestoneChallenges   Milestone = "challenges_selected"
	MilestoneSchema       Milestone = "schema_selected"
	MilestoneNutrition    Milestone = "nutrition_selected"
	MilestoneForumIntro   Milestone = "forum_intro"
)

// CapabilityFlags are entitlement-derived booleans supplied by the caller
// on every evaluation. The onboarding engine never stores them.
type CapabilityFlags struct {
	HasTrainingAccess  bool `json:"hasTrainingAccess"`
	HasNutritionAccess bool `json:"hasNutritionAccess"`
}

type OnboardingState struct {
	Step       int                `json:"step"`
	Milestones map[Milestone]bool `json:"milestones"`
	Completed  bool               `json:"completed"`
	Guidance   string             `json:"guidance"`
}

// onboardingStep binds a step number to its milestone, whether the user's
// entitlement requires it, and the guidance shown while the step is next.
type onboardingStep struct {
	num       int
	milestone Milestone
	required  func(CapabilityFlags) bool
	guidance  string
}

var onboardingSequence = []onboardingStep{
	{1, MilestoneWelcomeVideo, always, "Watch the welcome video to get started."},
	{2, MilestoneGoalSet, always, "Set your personal goal."},
	{3, MilestoneChallenges, always, "Pick the challenges you want to join."},
	{4, MilestoneSchema, func(f CapabilityFlags) bool { return f.HasTrainingAccess }, "Choose a training schema that fits your level."},
	{5, MilestoneNutrition, func(f CapabilityFlags) bool { return f.HasNutritionAccess }, "Select your nutrition plan."},
	{6, MilestoneForumIntro, always, "Introduce yourself on the community forum."},
}

const guidanceCompleted = "You're all set. Enjoy the platform!"

func always(CapabilityFlags) bool { return true }

type OnboardingService struct {
	Repo *repository.OnboardingRepository
}

func NewOnboardingService(repo *repository.OnboardingRepository) *OnboardingService {
	return &OnboardingService{Repo: repo}
}

// Status reports the user's onboarding position. The step is derived from
// the milestone set and the flags on every call; the stored step is never
// trusted, which keeps partial writes from drifting the visible state.
func (s *OnboardingService) Status(userID uint, flags CapabilityFlags) (*OnboardingState, error) {
	status, err := s.Repo.GetOrCreate(userID)
	if err != nil {
		return nil, err
	}
	return deriveState(status, flags), nil
}

// Advance sets one milestone and recomputes the step as far as the
// milestone set allows in a single call. Milestones are monotone: clearing
// one that is already set is a no-op, so the reported step never regresses.
// Writing for a user with no onboarding row creates it (first touch). The
// persisted write covers only the touched milestone column, so calls
// setting different milestones never overwrite each other.
func (s *OnboardingService) Advance(userID uint, milestone Milestone, value bool, flags CapabilityFlags) (*OnboardingState, error) {
	status, err := s.Repo.GetOrCreate(userID)
	if err != nil {
		return nil, err
	}

	field, ok := milestoneField(status, milestone)
	if !ok {
		return nil, util.ErrUnknownMilestone
	}
	if !value || *field {
		return deriveState(status, flags), nil
	}

	*field = true
	derived := deriveState(status, flags)
	column, _ := milestoneColumn(milestone)
	if err := s.Repo.SetMilestone(userID, column, derived.Step, derived.Completed); err != nil {
		return nil, err
	}

	return derived, nil
}

func milestoneField(status *model.OnboardingStatus, milestone Milestone) (*bool, bool) {
	switch milestone {
	case MilestoneWelcomeVideo:
		return &status.WelcomeVideoWatched, true
	case MilestoneGoalSet:
		return &status.GoalSet, true
	case MilestoneChallenges:
		return &status.ChallengesSelected, true
	case MilestoneSchema:
		return &status.SchemaSelected, true
	case MilestoneNutrition:
		return &status.NutritionPlanSelected, true
	case MilestoneForumIntro:
		return &status.ForumIntroDone, true
	}
	return nil, false
}

// milestoneColumn maps a milestone to its onboarding_statuses column.
func milestoneColumn(milestone Milestone) (string, bool) {
	switch milestone {
	case MilestoneWelcomeVideo:
		return "welcome_video_watched", true
	case MilestoneGoalSet:
		return "goal_set", true
	case MilestoneChallenges:
		return "challenges_selected", true
	case MilestoneSchema:
		return "schema_selected", true
	case MilestoneNutrition:
		return "nutrition_plan_selected", true
	case MilestoneForumIntro:
		return "forum_intro_done", true
	}
	return "", false
}

func milestoneValue(status *model.OnboardingStatus, milestone Milestone) bool {
	field, ok := milestoneField(status, milestone)
	return ok && *field
}

// deriveState walks the sequence: a step counts as passed when its
// milestone is set or the entitlement doesn't require it. The step lands on
// the last passed step; guidance describes the first step still open.
func deriveState(status *model.OnboardingStatus, flags CapabilityFlags) *OnboardingState {
	state := &OnboardingState{
		Step:       0,
		Milestones: make(map[Milestone]bool, len(onboardingSequence)),
	}

	guidance := ""
	passed := true
	for _, def := range onboardingSequence {
		state.Milestones[def.milestone] = milestoneValue(status, def.milestone)

		if !passed {
			continue
		}
		if !def.required(flags) || milestoneValue(status, def.milestone) {
			state.Step = def.num
			continue
		}
		passed = false
		guidance = def.guidance
	}

	if passed {
		state.Completed = true
		state.Guidance = guidanceCompleted
	} else {
		state.Guidance = guidance
	}
	return state
}

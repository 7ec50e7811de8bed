package service

import (
	"fitacademy_backend/internal/model"
	"fitacademy_backend/internal/repository"
	"fitacademy_backend/internal/util"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allAccess = CapabilityFlags{HasTrainingAccess: true, HasNutritionAccess: true}

func TestOnboardingStatusCreatesRowOnFirstRead(t *testing.T) {
	db := newTestDB(t)
	svc := newOnboardingService(db)

	state, err := svc.Status(1, allAccess)
	require.NoError(t, err)
	assert.Equal(t, 0, state.Step)
	assert.False(t, state.Completed)
	assert.Equal(t, "Watch the welcome video to get started.", state.Guidance)

	var count int64
	require.NoError(t, db.Model(&model.OnboardingStatus{}).Where("user_id = ?", 1).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestOnboardingAdvanceWalksTheSequence(t *testing.T) {
	db := newTestDB(t)
	svc := newOnboardingService(db)

	state, err := svc.Advance(1, MilestoneWelcomeVideo, true, allAccess)
	require.NoError(t, err)
	assert.Equal(t, 1, state.Step)
	assert.Equal(t, "Set your personal goal.", state.Guidance)

	state, err = svc.Advance(1, MilestoneGoalSet, true, allAccess)
	require.NoError(t, err)
	assert.Equal(t, 2, state.Step)

	state, err = svc.Advance(1, MilestoneChallenges, true, allAccess)
	require.NoError(t, err)
	assert.Equal(t, 3, state.Step)
	assert.Equal(t, "Choose a training schema that fits your level.", state.Guidance)
	assert.False(t, state.Completed)
}

func TestOnboardingOutOfOrderMilestoneDoesNotSkipAhead(t *testing.T) {
	db := newTestDB(t)
	svc := newOnboardingService(db)

	// forum intro recorded first: the step stays at zero until the
	// earlier milestones land
	state, err := svc.Advance(1, MilestoneForumIntro, true, allAccess)
	require.NoError(t, err)
	assert.Equal(t, 0, state.Step)
	assert.True(t, state.Milestones[MilestoneForumIntro])
	assert.Equal(t, "Watch the welcome video to get started.", state.Guidance)
}

func TestOnboardingMilestonesAreMonotone(t *testing.T) {
	db := newTestDB(t)
	svc := newOnboardingService(db)

	_, err := svc.Advance(1, MilestoneWelcomeVideo, true, allAccess)
	require.NoError(t, err)

	// clearing a set milestone is a no-op, the step never regresses
	state, err := svc.Advance(1, MilestoneWelcomeVideo, false, allAccess)
	require.NoError(t, err)
	assert.Equal(t, 1, state.Step)
	assert.True(t, state.Milestones[MilestoneWelcomeVideo])
}

func TestOnboardingSkipsStepsNotRequiredByEntitlement(t *testing.T) {
	db := newTestDB(t)
	svc := newOnboardingService(db)
	academyOnly := CapabilityFlags{}

	_, err := svc.Advance(1, MilestoneWelcomeVideo, true, academyOnly)
	require.NoError(t, err)
	_, err = svc.Advance(1, MilestoneGoalSet, true, academyOnly)
	require.NoError(t, err)

	// steps 4 and 5 don't apply without training/nutrition access, so
	// the challenge milestone carries the state straight to step 5
	state, err := svc.Advance(1, MilestoneChallenges, true, academyOnly)
	require.NoError(t, err)
	assert.Equal(t, 5, state.Step)
	assert.Equal(t, "Introduce yourself on the community forum.", state.Guidance)

	state, err = svc.Advance(1, MilestoneForumIntro, true, academyOnly)
	require.NoError(t, err)
	assert.Equal(t, 6, state.Step)
	assert.True(t, state.Completed)
	assert.Equal(t, "You're all set. Enjoy the platform!", state.Guidance)
}

func TestOnboardingFullSequenceCompletes(t *testing.T) {
	db := newTestDB(t)
	svc := newOnboardingService(db)

	sequence := []Milestone{
		MilestoneWelcomeVideo,
		MilestoneGoalSet,
		MilestoneChallenges,
		MilestoneSchema,
		MilestoneNutrition,
		MilestoneForumIntro,
	}
	var state *OnboardingState
	var err error
	for _, m := range sequence {
		state, err = svc.Advance(1, m, true, allAccess)
		require.NoError(t, err)
	}
	assert.Equal(t, 6, state.Step)
	assert.True(t, state.Completed)

	// the derived view survives a fresh read
	state, err = svc.Status(1, allAccess)
	require.NoError(t, err)
	assert.Equal(t, 6, state.Step)
	assert.True(t, state.Completed)
}

func TestOnboardingStepDerivedNotTrusted(t *testing.T) {
	db := newTestDB(t)
	svc := newOnboardingService(db)

	// a drifted stored step is ignored: milestones are the truth
	require.NoError(t, db.Create(&model.OnboardingStatus{
		UserID:              7,
		WelcomeVideoWatched: true,
		CurrentStep:         5,
	}).Error)

	state, err := svc.Status(7, allAccess)
	require.NoError(t, err)
	assert.Equal(t, 1, state.Step)
}

func TestOnboardingUnknownMilestone(t *testing.T) {
	db := newTestDB(t)
	svc := newOnboardingService(db)

	_, err := svc.Advance(1, Milestone("made_up"), true, allAccess)
	assert.ErrorIs(t, err, util.ErrUnknownMilestone)
}

func TestOnboardingMilestoneWritesCommute(t *testing.T) {
	db := newTestDB(t)
	repo := repository.NewOnboardingRepository(db)

	_, err := repo.GetOrCreate(1)
	require.NoError(t, err)

	// writers that loaded the same snapshot each touch only their own
	// column, so neither write drops the other's milestone
	require.NoError(t, repo.SetMilestone(1, "welcome_video_watched", 1, false))
	require.NoError(t, repo.SetMilestone(1, "forum_intro_done", 1, false))

	status, err := repo.GetOrCreate(1)
	require.NoError(t, err)
	assert.True(t, status.WelcomeVideoWatched)
	assert.True(t, status.ForumIntroDone)
	assert.Equal(t, 1, status.CurrentStep)
}

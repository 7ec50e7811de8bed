package service

import (
	"context"
	"encoding/json"
	"fitacademy_backend/internal/model"
	"fitacademy_backend/internal/repository"
	"fitacademy_backend/internal/util"
	"fitacademy_backend/pkg/logger"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const entitlementCacheTTL = 5 * time.Minute

// EntitlementService derives capability flags from the user's billing
// package. The flags are handed to the onboarding engine as parameters;
// nothing downstream stores them.
type EntitlementService struct {
	UserRepo *repository.UserRepository
	RDB      *redis.Client
}

func NewEntitlementService(userRepo *repository.UserRepository, rdb *redis.Client) *EntitlementService {
	return &EntitlementService{UserRepo: userRepo, RDB: rdb}
}

// Resolve looks the flags up cache-first, then from the user row. When the
// store read fails and the caller supplies the package from its token, the
// login-time snapshot answers instead of an error; a missing user row is
// still an error, the token cannot resurrect a deleted account.
func (s *EntitlementService) Resolve(ctx context.Context, userID uint, tokenPkg model.MemberPackage) (CapabilityFlags, error) {
	key := fmt.Sprintf("entitlement:flags:%d", userID)

	if s.RDB != nil {
		if cached, err := s.RDB.Get(ctx, key).Result(); err == nil {
			var flags CapabilityFlags
			if err := json.Unmarshal([]byte(cached), &flags); err == nil {
				return flags, nil
			}
		}
	}

	user, err := s.UserRepo.FindByID(userID)
	if err == gorm.ErrRecordNotFound {
		return CapabilityFlags{}, util.ErrUserNotFound
	}
	if err != nil {
		if tokenPkg != "" {
			logger.Log.Warn("entitlement lookup failed, falling back to token package",
				zap.Uint("userId", userID), zap.Error(err))
			return FlagsForPackage(tokenPkg), nil
		}
		return CapabilityFlags{}, err
	}

	flags := FlagsForPackage(user.Package)

	if s.RDB != nil {
		if payload, err := json.Marshal(flags); err == nil {
			s.RDB.Set(ctx, key, payload, entitlementCacheTTL)
		}
	}

	return flags, nil
}

func FlagsForPackage(pkg model.MemberPackage) CapabilityFlags {
	return CapabilityFlags{
		HasTrainingAccess:  pkg == model.PackageAllAccess || pkg == model.PackageTraining,
		HasNutritionAccess: pkg == model.PackageAllAccess || pkg == model.PackageNutrition,
	}
}

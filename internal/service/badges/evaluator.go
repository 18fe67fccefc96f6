package badges

// ReceivedReview is the slice of a revealed review that badge evaluation
// cares about. Pending reviews must never appear here.
type ReceivedReview struct {
	Rating                 float64
	DepositReturnedPercent *float64
}

// UserStats aggregates everything the evaluator needs about a user. It is a
// plain value: building it is the collector's job, judging it is the
// evaluator's, and the split keeps Evaluate a pure function.
type UserStats struct {
	ProfileComplete bool
	HasPhone        bool
	HasAddress      bool
	HasGender       bool
	HasBirthDate    bool

	MemberMonths     int
	EndedLeaseCount  int
	ReceiptCount     int
	SentMessageCount int

	ReviewsReceived []ReceivedReview

	OwnedPropertyCount  int
	ActivePropertyCount int

	// SignupRank is the user's zero-based ordinal position among all users
	// ordered by signup date.
	SignupRank int64
}

// AverageRating returns the unweighted arithmetic mean over all received
// reviews, or 0 when there are none.
func (s *UserStats) AverageRating() float64 {
	if len(s.ReviewsReceived) == 0 {
		return 0
	}
	var sum float64
	for _, r := range s.ReviewsReceived {
		sum += r.Rating
	}
	return sum / float64(len(s.ReviewsReceived))
}

// Evaluate returns the IDs of every badge whose unlock condition the stats
// currently satisfy, in catalog order. It is pure: identical stats always
// yield an identical set, with no side effects.
func Evaluate(stats UserStats) []string {
	var unlocked []string
	for _, badge := range catalog {
		predicate, ok := predicates[badge.ID]
		if !ok {
			// Catalog entry without an unlock rule: never satisfied.
			continue
		}
		if predicate(stats) {
			unlocked = append(unlocked, badge.ID)
		}
	}
	return unlocked
}

// predicates maps badge IDs to their unlock conditions. Thresholds are
// product-meaningful constants; changing them changes who holds what.
var predicates = map[string]func(UserStats) bool{
	BadgeFirstSteps: func(s UserStats) bool {
		return s.ProfileComplete
	},
	BadgeCommunicator: func(s UserStats) bool {
		return s.HasPhone
	},
	BadgeCompleteProfile: func(s UserStats) bool {
		return s.ProfileComplete && s.HasPhone && s.HasAddress && s.HasGender && s.HasBirthDate
	},
	BadgeLoyalTenant: func(s UserStats) bool {
		return s.EndedLeaseCount >= 1
	},
	BadgeVeteran: func(s UserStats) bool {
		return s.MemberMonths >= 12
	},
	BadgeSuperTenant: func(s UserStats) bool {
		return len(s.ReviewsReceived) >= 3 && s.AverageRating() >= 4.5
	},
	BadgeFlawless: func(s UserStats) bool {
		count := 0
		for _, r := range s.ReviewsReceived {
			if r.DepositReturnedPercent != nil && *r.DepositReturnedPercent == 100 {
				count++
			}
		}
		return count >= 3
	},
	BadgeFiveStars: func(s UserStats) bool {
		count := 0
		for _, r := range s.ReviewsReceived {
			if r.Rating >= 4.5 {
				count++
			}
		}
		return count >= 5
	},
	BadgePunctual: func(s UserStats) bool {
		return s.ReceiptCount >= 3
	},
	BadgeChatty: func(s UserStats) bool {
		return s.SentMessageCount >= 10
	},
	BadgeSocialButterfly: func(s UserStats) bool {
		return s.SentMessageCount >= 50
	},
	BadgeLandlordPro: func(s UserStats) bool {
		return s.ActivePropertyCount >= 3
	},
	BadgeInvestor: func(s UserStats) bool {
		return s.OwnedPropertyCount >= 5
	},
	BadgeFiveStarHost: func(s UserStats) bool {
		return len(s.ReviewsReceived) >= 3 && s.AverageRating() >= 4.5
	},
	BadgeEarlyAdopter: func(s UserStats) bool {
		return s.SignupRank < 100
	},
}

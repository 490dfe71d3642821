package model

// Role names as stored in the user_roles relation.
const (
	RoleDepartmentHead = "department-head"
	RoleTeamLeader     = "team-leader"
	RoleStudent        = "student"
)

// Level is the rating assigned by an evaluator to a peer.
type Level int

const (
	LevelFail Level = iota
	LevelPass
	LevelAverage
	LevelGood
	LevelExcellent
)

// IsValid reports whether l is one of the five defined rating levels.
func (l Level) IsValid() bool {
	return l >= LevelFail && l <= LevelExcellent
}

func (l Level) String() string {
	switch l {
	case LevelFail:
		return "Fail"
	case LevelPass:
		return "Pass"
	case LevelAverage:
		return "Average"
	case LevelGood:
		return "Good"
	case LevelExcellent:
		return "Excellent"
	default:
		return "Unknown"
	}
}

type User struct {
	Id            string `json:"id" gorm:"primaryKey;size:36"`
	Username      string `json:"username" gorm:"uniqueIndex;not null"`
	PasswordHash  string `json:"-" gorm:"column:password_hash"`
	Name          string `json:"name" gorm:"size:8"`
	Class         string `json:"class" gorm:"size:16;index"`
	Group         string `json:"group" gorm:"column:group_label;size:8;index"`
	StudentNumber string `json:"studentNumber" gorm:"size:10;index"`

	// Single-use password reset token state, managed by the user service.
	ResetToken       string `json:"-"`
	ResetTokenExpiry int64  `json:"-"`
}

// UserRole is a row of the role membership relation. Role checks query this
// table directly instead of relying on flags carried by the user record.
type UserRole struct {
	Id     int    `json:"id" gorm:"primaryKey;autoIncrement"`
	UserId string `json:"userId" gorm:"size:36;not null;uniqueIndex:idx_user_role"`
	Role   string `json:"role" gorm:"not null;uniqueIndex:idx_user_role"`

	User User `json:"-" gorm:"foreignKey:UserId;references:Id;constraint:OnDelete:CASCADE"`
}

// Comment is one evaluation of EvaluatedId written by EvaluatorId. The
// unique index over the pair makes resubmission an update, never a second
// row, even under concurrent submissions.
type Comment struct {
	Id          int    `json:"id" gorm:"primaryKey;autoIncrement"`
	EvaluatorId string `json:"evaluatorId" gorm:"size:36;not null;uniqueIndex:idx_evaluator_evaluated"`
	EvaluatedId string `json:"evaluatedId" gorm:"size:36;not null;uniqueIndex:idx_evaluator_evaluated"`
	Level       Level  `json:"level" gorm:"index"`
	Content     string `json:"content"`

	// Set when the comment is first created and never refreshed: it records
	// whether the author held the team-leader role at that moment.
	IsFromTeamLeader bool `json:"isFromTeamLeader" gorm:"index"`

	Evaluator User `json:"-" gorm:"foreignKey:EvaluatorId;references:Id;constraint:OnDelete:CASCADE"`
	Evaluated User `json:"-" gorm:"foreignKey:EvaluatedId;references:Id;constraint:OnDelete:CASCADE"`
}

type Setting struct {
	Id    int    `json:"id" form:"id" gorm:"primaryKey;autoIncrement"`
	Key   string `json:"key" form:"key"`
	Value string `json:"value" form:"value"`
}

package models

import (
	"database/sql/driver"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base model with common fields
type BaseModel struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}

// UUIDModel is the base for records keyed by UUID (courses, sessions, attendances, leave requests)
type UUIDModel struct {
	ID        string    `json:"id" gorm:"type:char(36);primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (m *UUIDModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}

// JSON field type for GORM
type JSON []byte

func (j JSON) Value() (driver.Value, error) {
	if j.IsNull() {
		return nil, nil
	}
	return string(j), nil
}

func (j *JSON) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}
	s, ok := value.([]byte)
	if !ok {
		return nil
	}
	*j = append((*j)[0:0], s...)
	return nil
}

func (j JSON) MarshalJSON() ([]byte, error) {
	if j == nil {
		return []byte("null"), nil
	}
	return j, nil
}

func (j *JSON) UnmarshalJSON(data []byte) error {
	if j == nil {
		return nil
	}
	*j = append((*j)[0:0], data...)
	return nil
}

func (j JSON) IsNull() bool {
	return len(j) == 0 || string(j) == "null"
}

// User model - the identity-provider account record
type User struct {
	BaseModel
	Username string `json:"username" gorm:"size:100;not null;uniqueIndex"`
	Password string `json:"-" gorm:"size:255;not null"`
	Email    string `json:"email" gorm:"size:255;uniqueIndex"`
	Phone    string `json:"phone" gorm:"size:20"`
	Role     string `json:"role" gorm:"size:50;not null;default:'student';type:enum('admin','teacher','student')"` // admin, teacher, student
	Status   string `json:"status" gorm:"size:50;not null;default:'active';type:enum('active','inactive','suspended')"`

	// Relationships
	Student *Student `json:"student,omitempty" gorm:"foreignKey:UserID"`
	Teacher *Teacher `json:"teacher,omitempty" gorm:"foreignKey:UserID"`
}

// Department model
type Department struct {
	BaseModel
	Name        string `json:"name" gorm:"size:255;not null"`
	Code        string `json:"code" gorm:"size:50;not null;uniqueIndex"`
	Description string `json:"description" gorm:"type:text"`
}

// Program model (a degree program within a department)
type Program struct {
	BaseModel
	Name          string `json:"name" gorm:"size:255;not null"`
	DepartmentID  uint   `json:"department_id" gorm:"not null;index"`
	DurationYears int    `json:"duration_years" gorm:"default:4"`

	// Relationships
	Department Department `json:"department,omitempty" gorm:"foreignKey:DepartmentID"`
}

// Group model - a cohort of students that follows one weekly schedule
type Group struct {
	BaseModel
	Name         string `json:"name" gorm:"size:100;not null;uniqueIndex:idx_program_year_name"`
	ProgramID    uint   `json:"program_id" gorm:"not null;uniqueIndex:idx_program_year_name"`
	AcademicYear int    `json:"academic_year" gorm:"not null;uniqueIndex:idx_program_year_name"`
	MaxCapacity  int    `json:"max_capacity" gorm:"default:50"`

	// Relationships
	Program  Program   `json:"program,omitempty" gorm:"foreignKey:ProgramID"`
	Students []Student `json:"students,omitempty" gorm:"foreignKey:GroupID"`
}

// Student model - directory profile, distinct from the User account
type Student struct {
	BaseModel
	UserID       *uint      `json:"user_id" gorm:"uniqueIndex"`
	FirstName    string     `json:"first_name" gorm:"size:100;not null"`
	LastName     string     `json:"last_name" gorm:"size:100;not null"`
	Gender       string     `json:"gender" gorm:"size:20;type:enum('male','female')"`
	DateOfBirth  *time.Time `json:"date_of_birth"`
	DepartmentID uint       `json:"department_id" gorm:"not null;index"`
	ProgramID    uint       `json:"program_id" gorm:"not null;index"`
	GroupID      *uint      `json:"group_id" gorm:"index"`
	AcademicYear int        `json:"academic_year" gorm:"default:1"`
	Email        string     `json:"email" gorm:"size:255"`
	Phone        string     `json:"phone" gorm:"size:20"`

	// Relationships
	User  *User  `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Group *Group `json:"group,omitempty" gorm:"foreignKey:GroupID"`
}

// Teacher model - directory profile, distinct from the User account
type Teacher struct {
	BaseModel
	UserID         *uint  `json:"user_id" gorm:"uniqueIndex"`
	FirstName      string `json:"first_name" gorm:"size:100;not null"`
	LastName       string `json:"last_name" gorm:"size:100;not null"`
	DepartmentID   uint   `json:"department_id" gorm:"not null;index"`
	Specialization string `json:"specialization" gorm:"size:255"`
	Email          string `json:"email" gorm:"size:255"`
	Phone          string `json:"phone" gorm:"size:20"`

	// Relationships
	User       *User      `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Department Department `json:"department,omitempty" gorm:"foreignKey:DepartmentID"`
}

// Course model. TeacherID references the teacher's User account id, not the directory profile.
type Course struct {
	UUIDModel
	Name         string `json:"name" gorm:"size:255;not null"`
	Code         string `json:"code" gorm:"size:50;uniqueIndex"`
	Credits      int    `json:"credits" gorm:"default:1"`
	DepartmentID *uint  `json:"department_id" gorm:"index"`
	TeacherID    *uint  `json:"teacher_id" gorm:"index"`

	// Relationships
	Teacher *User `json:"teacher,omitempty" gorm:"foreignKey:TeacherID"`
}

// Schedule model - a recurring weekly meeting of one course for one group.
// Foreign keys are plain scalar ids; conflict checks live in services.ScheduleService.
// The slot index is deliberately non-unique: the conflict rule binds active
// rows only, which a MySQL unique index cannot express, so deactivated rows
// must not block a replacement in the same slot.
type Schedule struct {
	BaseModel
	CourseID      string `json:"course_id" gorm:"type:char(36);not null;index"`
	GroupID       uint   `json:"group_id" gorm:"not null;index:idx_group_day_slot_semester"`
	Semester      int    `json:"semester" gorm:"default:1;index:idx_group_day_slot_semester"`
	SemesterWeeks int    `json:"semester_weeks" gorm:"default:16"`
	DayOfWeek     string `json:"day_of_week" gorm:"size:20;not null;index:idx_group_day_slot_semester;type:enum('monday','tuesday','wednesday','thursday','friday','saturday','sunday')"`
	StartSlot     string `json:"start_slot" gorm:"size:20;not null;index:idx_group_day_slot_semester"`
	Duration      int    `json:"duration" gorm:"default:1"` // duration in slots (hours)
	Type          string `json:"type" gorm:"size:20;not null;type:enum('lecture','practical','lab')"`
	RoomNumber    string `json:"room_number" gorm:"size:50"`
	Color         string `json:"color" gorm:"size:20"`
	IsActive      bool   `json:"is_active" gorm:"default:true"`

	// Relationships
	Course Course `json:"course,omitempty" gorm:"foreignKey:CourseID"`
	Group  Group  `json:"group,omitempty" gorm:"foreignKey:GroupID"`
}

// Session model - a concrete dated occurrence of a course
type Session struct {
	UUIDModel
	Title          string    `json:"title" gorm:"size:255;not null"`
	Description    string    `json:"description" gorm:"type:text"`
	CourseID       string    `json:"course_id" gorm:"type:char(36);not null;index"`
	CreatedByID    uint      `json:"created_by_id" gorm:"not null;index"`
	StartTime      time.Time `json:"start_time" gorm:"not null"`
	EndTime        time.Time `json:"end_time" gorm:"not null"`
	AttendanceCode string    `json:"attendance_code" gorm:"size:8;not null;uniqueIndex"`
	Status         string    `json:"status" gorm:"size:20;not null;default:'scheduled';type:enum('scheduled','active','completed','cancelled')"`
	IsCodeActive   bool      `json:"is_code_active" gorm:"default:true"`

	// Relationships
	Course      Course       `json:"course,omitempty" gorm:"foreignKey:CourseID"`
	CreatedBy   User         `json:"created_by,omitempty" gorm:"foreignKey:CreatedByID"`
	Attendances []Attendance `json:"attendances,omitempty" gorm:"foreignKey:SessionID"`
}

// Attendance model - one outcome per (session, student).
// StudentID is the identity-provider User id, never the directory profile id.
type Attendance struct {
	UUIDModel
	SessionID     string     `json:"session_id" gorm:"type:char(36);not null;uniqueIndex:idx_session_student"`
	StudentID     uint       `json:"student_id" gorm:"not null;uniqueIndex:idx_session_student;index"`
	Status        string     `json:"status" gorm:"size:20;not null;default:'present';type:enum('present','absent','late','excused')"`
	CheckInMethod string     `json:"check_in_method" gorm:"size:20;not null;default:'code';type:enum('code','manual')"`
	CheckInTime   *time.Time `json:"check_in_time"`
	MarkedByID    *uint      `json:"marked_by_id"`
	Remarks       string     `json:"remarks" gorm:"size:500"`

	// Relationships
	Session  Session `json:"session,omitempty" gorm:"foreignKey:SessionID"`
	Student  User    `json:"student,omitempty" gorm:"foreignKey:StudentID"`
	MarkedBy *User   `json:"marked_by,omitempty" gorm:"foreignKey:MarkedByID"`
}

// LeaveRequest model. StudentID/TeacherID are identity-provider User ids;
// only approved student requests drive attendance reconciliation.
type LeaveRequest struct {
	UUIDModel
	StudentID    *uint      `json:"student_id" gorm:"index"`
	TeacherID    *uint      `json:"teacher_id" gorm:"index"`
	StartDate    time.Time  `json:"start_date" gorm:"type:date;not null"`
	EndDate      time.Time  `json:"end_date" gorm:"type:date;not null"`
	LeaveType    string     `json:"leave_type" gorm:"size:50;not null;type:enum('sick','personal','family','other')"`
	Reason       string     `json:"reason" gorm:"type:text"`
	Status       string     `json:"status" gorm:"size:20;not null;default:'pending';type:enum('pending','approved','rejected')"`
	ReviewNote   string     `json:"review_note" gorm:"size:500"`
	ReviewedByID *uint      `json:"reviewed_by_id"`
	ReviewedAt   *time.Time `json:"reviewed_at"`

	// Relationships
	Student    *User `json:"student,omitempty" gorm:"foreignKey:StudentID"`
	ReviewedBy *User `json:"reviewed_by,omitempty" gorm:"foreignKey:ReviewedByID"`
}

// Notification model
type Notification struct {
	BaseModel
	UserID  uint       `json:"user_id" gorm:"not null;index"`
	Title   string     `json:"title" gorm:"size:255;not null"`
	Message string     `json:"message" gorm:"type:text;not null"`
	Type    string     `json:"type" gorm:"size:50;not null;type:enum('info','warning','error','success')"`
	Read    bool       `json:"read" gorm:"default:false"`
	ReadAt  *time.Time `json:"read_at"`
	Data    JSON       `json:"data,omitempty" gorm:"type:json"`

	// Relationships
	User User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

// Log model for activity tracking
type ActivityLog struct {
	BaseModel
	UserID     uint   `json:"user_id"`
	Action     string `json:"action" gorm:"size:100;not null"`
	Resource   string `json:"resource" gorm:"size:100;not null"`
	ResourceID string `json:"resource_id" gorm:"size:100"`
	Details    JSON   `json:"details" gorm:"type:json"`
	IPAddress  string `json:"ip_address" gorm:"size:45"`
	UserAgent  string `json:"user_agent" gorm:"size:500"`

	// Relationships
	User User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

// LogArchive model for tracking archived logs
type LogArchive struct {
	BaseModel
	FileName    string    `json:"file_name" gorm:"size:255;not null"`
	S3Key       string    `json:"s3_key" gorm:"size:500;not null"`
	StartDate   time.Time `json:"start_date" gorm:"not null"`
	EndDate     time.Time `json:"end_date" gorm:"not null"`
	RecordCount int       `json:"record_count" gorm:"not null"`
	FileSize    int64     `json:"file_size" gorm:"not null"`
	Status      string    `json:"status" gorm:"size:50;not null;default:'pending';type:enum('pending','completed','failed')"`
	Error       string    `json:"error" gorm:"type:text"`
}

package seeders

import (
	"campushub_go/config"
	"campushub_go/database"
	"campushub_go/models"
	"campushub_go/utils"
	"log"
	"time"
)

// SeedAll runs the idempotent startup seeders. The admin account is always
// ensured; demo directory data is only created when SEED_DEMO_DATA is set.
func SeedAll() {
	log.Println("Starting database seeding...")

	SeedAdmin()
	if config.AppConfig.SeedDemoData {
		SeedDemoDirectory()
	}

	log.Println("Database seeding completed")
}

// SeedAdmin ensures the bootstrap admin account exists.
func SeedAdmin() {
	var count int64
	database.DB.Model(&models.User{}).Where("role = ?", "admin").Count(&count)
	if count > 0 {
		log.Println("Admin account already present, skipping...")
		return
	}

	hashedPassword, err := utils.HashPassword("admin123")
	if err != nil {
		log.Printf("Error hashing admin password: %v", err)
		return
	}

	admin := models.User{
		Username: "admin",
		Password: hashedPassword,
		Email:    "admin@campushub.local",
		Role:     "admin",
		Status:   "active",
	}

	if err := database.DB.Create(&admin).Error; err != nil {
		log.Printf("Error seeding admin user: %v", err)
		return
	}

	log.Println("Admin account seeded successfully")
}

// SeedDemoDirectory creates a small department/program/group/course directory
// with one teacher and two students, so schedules and sessions can be exercised
// in development without an external directory import.
func SeedDemoDirectory() {
	var count int64
	database.DB.Model(&models.Department{}).Count(&count)
	if count > 0 {
		log.Println("Directory already seeded, skipping...")
		return
	}

	hashedPassword, _ := utils.HashPassword("password123")

	department := models.Department{Name: "Information Technology", Code: "IT", Description: "Department of Information Technology"}
	if err := database.DB.Create(&department).Error; err != nil {
		log.Printf("Error seeding department: %v", err)
		return
	}

	program := models.Program{Name: "Software Engineering", DepartmentID: department.ID, DurationYears: 4}
	if err := database.DB.Create(&program).Error; err != nil {
		log.Printf("Error seeding program: %v", err)
		return
	}

	group := models.Group{Name: "A", ProgramID: program.ID, AcademicYear: 1, MaxCapacity: 40}
	if err := database.DB.Create(&group).Error; err != nil {
		log.Printf("Error seeding group: %v", err)
		return
	}

	teacherUser := models.User{Username: "teacher1", Password: hashedPassword, Email: "teacher1@campushub.local", Role: "teacher", Status: "active"}
	if err := database.DB.Create(&teacherUser).Error; err != nil {
		log.Printf("Error seeding teacher user: %v", err)
		return
	}
	teacher := models.Teacher{UserID: &teacherUser.ID, FirstName: "Sokha", LastName: "Chan", DepartmentID: department.ID, Specialization: "Programming"}
	if err := database.DB.Create(&teacher).Error; err != nil {
		log.Printf("Error seeding teacher profile: %v", err)
	}

	dob := time.Date(2006, 3, 14, 0, 0, 0, 0, time.UTC)
	studentUsers := []models.User{
		{Username: "student1", Password: hashedPassword, Email: "student1@campushub.local", Role: "student", Status: "active"},
		{Username: "student2", Password: hashedPassword, Email: "student2@campushub.local", Role: "student", Status: "active"},
	}
	studentNames := [][2]string{{"Dara", "Kim"}, {"Srey", "Pov"}}
	for i := range studentUsers {
		if err := database.DB.Create(&studentUsers[i]).Error; err != nil {
			log.Printf("Error seeding student user %s: %v", studentUsers[i].Username, err)
			continue
		}
		student := models.Student{
			UserID:       &studentUsers[i].ID,
			FirstName:    studentNames[i][0],
			LastName:     studentNames[i][1],
			Gender:       "male",
			DateOfBirth:  &dob,
			DepartmentID: department.ID,
			ProgramID:    program.ID,
			GroupID:      &group.ID,
			AcademicYear: 1,
		}
		if err := database.DB.Create(&student).Error; err != nil {
			log.Printf("Error seeding student profile: %v", err)
		}
	}

	course := models.Course{Name: "Introduction to Programming", Code: "IT101", Credits: 3, DepartmentID: &department.ID, TeacherID: &teacherUser.ID}
	if err := database.DB.Create(&course).Error; err != nil {
		log.Printf("Error seeding course: %v", err)
	}

	log.Println("Demo directory seeded successfully")
}

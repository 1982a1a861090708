package middleware

import (
	"campushub_go/config"
	"campushub_go/database"
	"campushub_go/models"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
)

type Claims struct {
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// Principal carries the resolved identity of the request: the account id, its
// role, and the linked directory profile when one exists. StudentProfileID and
// TeacherProfileID are the directory rows; UserID is what sessions, attendances
// and leave requests reference.
type Principal struct {
	UserID           uint
	Username         string
	Role             string
	StudentProfileID *uint
	TeacherProfileID *uint
	GroupID          *uint
}

func (p *Principal) IsAdmin() bool   { return p.Role == "admin" }
func (p *Principal) IsTeacher() bool { return p.Role == "teacher" }
func (p *Principal) IsStudent() bool { return p.Role == "student" }

// GenerateToken creates a new JWT token for a user
func GenerateToken(user *models.User) (string, error) {
	claims := &Claims{
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(config.AppConfig.JWTExpiresIn)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(config.AppConfig.JWTSecret))
}

// JWTMiddleware validates JWT tokens and resolves the caller's Principal
func JWTMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		// Get token from Authorization header
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Missing authorization header",
			})
		}

		// Extract token from "Bearer <token>"
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid authorization header format",
			})
		}

		// Parse and validate token
		token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
			return []byte(config.AppConfig.JWTSecret), nil
		})

		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid token",
			})
		}

		claims, ok := token.Claims.(*Claims)
		if !ok || !token.Valid {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid token claims",
			})
		}

		// Verify user still exists and is active
		var user models.User
		if err := database.DB.Where("id = ? AND status = ?", claims.UserID, "active").First(&user).Error; err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "User not found or inactive",
			})
		}

		principal := &Principal{
			UserID:   user.ID,
			Username: user.Username,
			Role:     user.Role,
		}

		// Resolve the directory profile once so handlers never repeat the lookup.
		// Accounts without a linked profile still pass; profile-bound endpoints
		// reject them individually.
		switch user.Role {
		case "student":
			var student models.Student
			if err := database.DB.Where("user_id = ?", user.ID).First(&student).Error; err == nil {
				principal.StudentProfileID = &student.ID
				principal.GroupID = student.GroupID
			}
		case "teacher":
			var teacher models.Teacher
			if err := database.DB.Where("user_id = ?", user.ID).First(&teacher).Error; err == nil {
				principal.TeacherProfileID = &teacher.ID
			}
		}

		// Store user info in context
		c.Locals("user", &user)
		c.Locals("claims", claims)
		c.Locals("principal", principal)

		return c.Next()
	}
}

// RequireRole middleware checks if user has required role
func RequireRole(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, ok := c.Locals("claims").(*Claims)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Missing user claims",
			})
		}

		// Check if user role is in allowed roles
		for _, role := range roles {
			if claims.Role == role {
				return c.Next()
			}
		}

		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Insufficient permissions",
		})
	}
}

// RequireAdmin middleware allows only admins
func RequireAdmin() fiber.Handler {
	return RequireRole("admin")
}

// RequireTeacherOrAdmin middleware allows teachers and admins
func RequireTeacherOrAdmin() fiber.Handler {
	return RequireRole("teacher", "admin")
}

// GetCurrentUser returns the current authenticated user
func GetCurrentUser(c *fiber.Ctx) (*models.User, error) {
	user, ok := c.Locals("user").(*models.User)
	if !ok {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "User not found in context")
	}
	return user, nil
}

// GetCurrentClaims returns the current JWT claims
func GetCurrentClaims(c *fiber.Ctx) (*Claims, error) {
	claims, ok := c.Locals("claims").(*Claims)
	if !ok {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "Claims not found in context")
	}
	return claims, nil
}

// GetPrincipal returns the resolved identity of the request
func GetPrincipal(c *fiber.Ctx) (*Principal, error) {
	principal, ok := c.Locals("principal").(*Principal)
	if !ok {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "Principal not found in context")
	}
	return principal, nil
}

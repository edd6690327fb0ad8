package controller

import (
	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"

	"lms_backend/pkg/utils/jwt"
)

// AdminSubject is the token subject of the single dashboard operator.
const AdminSubject = "admin"

type LoginInput struct {
	Password string `json:"password"`
}

type AuthController struct {
	signer       *jwt.Signer
	passwordHash []byte
}

func NewAuthController(signer *jwt.Signer, passwordHash string) *AuthController {
	return &AuthController{signer: signer, passwordHash: []byte(passwordHash)}
}

// Login exchanges the admin password for a token.
func (ac *AuthController) Login(c *fiber.Ctx) error {
	if len(ac.passwordHash) == 0 {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "Login is not configured",
		})
	}

	input := new(LoginInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}

	if err := bcrypt.CompareHashAndPassword(ac.passwordHash, []byte(input.Password)); err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Invalid credentials",
		})
	}

	token, err := ac.signer.GenerateToken(AdminSubject)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not generate token",
		})
	}

	return c.JSON(fiber.Map{
		"token": token,
	})
}

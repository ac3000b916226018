package controllers

import (
	"fmt"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sujit-baniya/flash"

	"github.com/fromwithin/fromwithin/app/models"
	"github.com/fromwithin/fromwithin/internal/pkg/constants"
	"github.com/fromwithin/fromwithin/internal/pkg/database"
	"github.com/fromwithin/fromwithin/internal/pkg/mail"
	"github.com/fromwithin/fromwithin/internal/pkg/session"
	"github.com/fromwithin/fromwithin/internal/pkg/usercontext"
)

func HandleAuthLogin(c *fiber.Ctx) error {
	if c.Method() == fiber.MethodPost {
		var user models.User
		fm := fiber.Map{
			"type": "error",
		}

		// notice: in production you should not inform the user
		// with detailed messages about login failures
		result := database.GetDB().Where("email = ?", c.FormValue("email")).First(&user)
		if result.Error != nil {
			fm["message"] = "There is a problem with the login process"

			return flash.WithError(c, fm).Redirect(constants.LoginRoute)
		}

		if !models.CheckPasswordHash(c.FormValue("password"), user.Password) {
			fm["message"] = "There is a problem with the login process"

			return flash.WithError(c, fm).Redirect(constants.LoginRoute)
		}

		if err := startUserSession(c, &user); err != nil {
			fm["message"] = fmt.Sprintf("something went wrong: %s", err)

			return flash.WithError(c, fm).Redirect(constants.LoginRoute)
		}

		database.GetDB().Model(&user).Update("last_login_at", time.Now())

		// The root route decides between onboarding and home.
		return c.Redirect(constants.PublicRoute)
	}

	return render(c, "auth/login", fiber.Map{
		"Title": "Sign in",
	})
}

func HandleAuthRegister(c *fiber.Ctx) error {
	if c.Method() == fiber.MethodPost {
		user, err := models.CreateUser(c.FormValue("username"), c.FormValue("email"), c.FormValue("password"))
		if err != nil {
			fm := fiber.Map{
				"type":    "error",
				"message": fmt.Sprintf("something went wrong: %s", err),
			}

			return flash.WithError(c, fm).Redirect(constants.RegisterRoute)
		}

		if err := user.GenerateActivationToken(); err != nil {
			log.Printf("generating activation token failed: %v", err)
		}

		err = database.GetDB().Create(&user).Error
		if err != nil {
			fm := fiber.Map{
				"type":    "error",
				"message": fmt.Sprintf("something went wrong: %s", err),
			}

			return flash.WithError(c, fm).Redirect(constants.RegisterRoute)
		}

		go func(email, name, token string) {
			if err := mail.SendActivationMail(email, name, token); err != nil {
				log.Printf("activation mail to %s failed: %v", email, err)
			}
		}(user.Email, user.Name, user.ActivationToken)

		fm := fiber.Map{
			"type":    "success",
			"message": "Welcome! Check your inbox for the activation link, then sign in.",
		}

		return flash.WithSuccess(c, fm).Redirect(constants.LoginRoute)
	}

	return render(c, "auth/register", fiber.Map{
		"Title": "Create account",
	})
}

// HandleAuthActivate confirms the email address behind an activation link.
func HandleAuthActivate(c *fiber.Ctx) error {
	token := c.Query("token")
	if token == "" {
		fm := fiber.Map{
			"type":    "error",
			"message": "The activation link is incomplete.",
		}
		return flash.WithError(c, fm).Redirect(constants.LoginRoute)
	}

	var user models.User
	if err := database.GetDB().Where("activation_token = ?", token).First(&user).Error; err != nil {
		fm := fiber.Map{
			"type":    "error",
			"message": "This activation link is invalid or was already used.",
		}
		return flash.WithError(c, fm).Redirect(constants.LoginRoute)
	}

	err := database.GetDB().Model(&user).Updates(map[string]interface{}{
		"status":           models.STATUS_ACTIVE,
		"activation_token": "",
	}).Error
	if err != nil {
		fm := fiber.Map{
			"type":    "error",
			"message": fmt.Sprintf("something went wrong: %s", err),
		}
		return flash.WithError(c, fm).Redirect(constants.LoginRoute)
	}

	fm := fiber.Map{
		"type":    "success",
		"message": "Your account is active. Welcome!",
	}
	return flash.WithSuccess(c, fm).Redirect(constants.LoginRoute)
}

func HandleAuthLogout(c *fiber.Ctx) error {
	sess, err := session.GetSessionStore().Get(c)
	if err != nil {
		return c.Redirect(constants.WelcomeRoute)
	}

	if err := sess.Destroy(); err != nil {
		fm := fiber.Map{
			"type":    "error",
			"message": fmt.Sprintf("something went wrong: %s", err),
		}

		return flash.WithError(c, fm).Redirect(constants.WelcomeRoute)
	}

	return c.Redirect(constants.WelcomeRoute)
}

// startUserSession writes the auth keys a fresh login needs. Cached
// entitlement facts from an earlier session never survive a new login.
func startUserSession(c *fiber.Ctx, user *models.User) error {
	sess, err := session.GetSessionStore().Get(c)
	if err != nil {
		return err
	}

	sess.Set(usercontext.AuthKey, true)
	sess.Set(usercontext.KeyUserID, user.ID)
	sess.Set(usercontext.KeyUsername, user.Name)
	sess.Delete(usercontext.KeyWearableConnected)
	sess.Delete(usercontext.KeySubscriptionStatus)

	return sess.Save()
}

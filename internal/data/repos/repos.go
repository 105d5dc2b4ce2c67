package repos

import (
	"gorm.io/gorm"

	"github.com/sagar803/real-estate-dashboard/internal/data/repos/builders"
	"github.com/sagar803/real-estate-dashboard/internal/data/repos/chatbots"
	"github.com/sagar803/real-estate-dashboard/internal/data/repos/properties"
	"github.com/sagar803/real-estate-dashboard/internal/platform/logger"
)

type BuilderRepo = builders.BuilderRepo
type ChatbotRepo = chatbots.ChatbotRepo
type PropertyRepo = properties.PropertyRepo

var ErrRouteTaken = chatbots.ErrRouteTaken

func NewBuilderRepo(db *gorm.DB, baseLog *logger.Logger) BuilderRepo {
	return builders.NewBuilderRepo(db, baseLog)
}

func NewChatbotRepo(db *gorm.DB, baseLog *logger.Logger) ChatbotRepo {
	return chatbots.NewChatbotRepo(db, baseLog)
}

func NewPropertyRepo(db *gorm.DB, baseLog *logger.Logger) PropertyRepo {
	return properties.NewPropertyRepo(db, baseLog)
}

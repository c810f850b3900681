package mapper

import (
	"encoding/json"

	"gorm.io/datatypes"

	"github.com/Austin-Artificial-Intelligence-Hub/SoulShield/internal/entity"
	"github.com/Austin-Artificial-Intelligence-Hub/SoulShield/internal/model"
)

type ChatMapper struct{}

func NewChatMapper() *ChatMapper {
	return &ChatMapper{}
}

func (m *ChatMapper) ToEntity(msg *model.ChatMessage) *entity.ChatMessage {
	if msg == nil {
		return nil
	}

	var options []string
	if len(msg.Options) > 0 {
		// A corrupt column degrades to no options, not a failed read.
		_ = json.Unmarshal(msg.Options, &options)
	}

	return &entity.ChatMessage{
		Id:        msg.Id,
		UserId:    msg.UserId,
		SessionId: msg.SessionId,
		Role:      msg.Role,
		Content:   msg.Content,
		Options:   options,
		CreatedAt: msg.CreatedAt,
		ExpiresAt: msg.ExpiresAt,
	}
}

func (m *ChatMapper) ToModel(msg *entity.ChatMessage) *model.ChatMessage {
	if msg == nil {
		return nil
	}

	var options datatypes.JSON
	if len(msg.Options) > 0 {
		data, err := json.Marshal(msg.Options)
		if err == nil {
			options = datatypes.JSON(data)
		}
	}

	return &model.ChatMessage{
		Id:        msg.Id,
		UserId:    msg.UserId,
		SessionId: msg.SessionId,
		Role:      msg.Role,
		Content:   msg.Content,
		Options:   options,
		CreatedAt: msg.CreatedAt,
		ExpiresAt: msg.ExpiresAt,
	}
}

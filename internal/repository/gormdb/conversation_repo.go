package gormdb

import (
	"context"
	"time"

	"social-backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type conversationRepository struct {
	db *gorm.DB
}

func (r *conversationRepository) FindByID(ctx context.Context, id string) (*model.Conversation, error) {
	return take[model.Conversation](r.db.WithContext(ctx).Where("id = ?", id))
}

func (r *conversationRepository) FindByParticipants(ctx context.Context, a, b string) (*model.Conversation, error) {
	low, high := model.OrderedPair(a, b)
	return take[model.Conversation](r.db.WithContext(ctx).
		Where("participant_low = ? AND participant_high = ?", low, high))
}

func (r *conversationRepository) CreateIfAbsent(ctx context.Context, conv *model.Conversation) (bool, error) {
	if conv.ID == "" {
		conv.ID = newID()
	}
	conv.ParticipantLow, conv.ParticipantHigh = model.OrderedPair(conv.ParticipantLow, conv.ParticipantHigh)
	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(conv)
	return res.RowsAffected > 0, res.Error
}

func (r *conversationRepository) ListForUser(ctx context.Context, userID string) ([]*model.Conversation, error) {
	var convs []*model.Conversation
	err := r.db.WithContext(ctx).
		Where("participant_low = ? OR participant_high = ?", userID, userID).
		Order("updated_at DESC, id DESC").
		Find(&convs).Error
	return convs, err
}

func (r *conversationRepository) ListIDs(ctx context.Context, offset, limit int) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).Model(&model.Conversation{}).Order("id").Offset(offset).Limit(limit).Pluck("id", &ids).Error
	return ids, err
}

func (r *conversationRepository) SetLastMessage(ctx context.Context, id string, last model.LastMessage) error {
	return r.db.WithContext(ctx).Model(&model.Conversation{}).Where("id = ?", id).Updates(map[string]interface{}{
		"last_message_content":   last.Content,
		"last_message_sender_id": last.SenderID,
		"last_message_sent_at":   last.SentAt,
		"updated_at":             time.Now(),
	}).Error
}

func (r *conversationRepository) Delete(ctx context.Context, id string) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("conversation_id = ?", id).Delete(&model.ConversationUnread{}).Error; err != nil {
		return err
	}
	return db.Where("id = ?", id).Delete(&model.Conversation{}).Error
}

func (r *conversationRepository) InitUnread(ctx context.Context, id string, userIDs []string) error {
	rows := make([]model.ConversationUnread, 0, len(userIDs))
	for _, uid := range userIDs {
		rows = append(rows, model.ConversationUnread{ConversationID: id, UserID: uid})
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&rows).Error
}

func unreadConflict(set clause.Set) clause.OnConflict {
	return clause.OnConflict{
		Columns:   []clause.Column{{Name: "conversation_id"}, {Name: "user_id"}},
		DoUpdates: set,
	}
}

func (r *conversationRepository) IncrementUnread(ctx context.Context, id, userID string, delta int64) error {
	row := model.ConversationUnread{ConversationID: id, UserID: userID, Count: delta}
	return r.db.WithContext(ctx).
		Clauses(unreadConflict(clause.Assignments(map[string]interface{}{
			"unread_count": gorm.Expr("conversation_unreads.unread_count + ?", delta),
		}))).
		Create(&row).Error
}

func (r *conversationRepository) SetUnread(ctx context.Context, id, userID string, count int64) error {
	row := model.ConversationUnread{ConversationID: id, UserID: userID, Count: count}
	return r.db.WithContext(ctx).
		Clauses(unreadConflict(clause.Assignments(map[string]interface{}{"unread_count": count}))).
		Create(&row).Error
}

func (r *conversationRepository) UnreadCounts(ctx context.Context, id string) (model.UnreadCounts, error) {
	var rows []model.ConversationUnread
	if err := r.db.WithContext(ctx).Where("conversation_id = ?", id).Find(&rows).Error; err != nil {
		return nil, err
	}
	counts := make(model.UnreadCounts, len(rows))
	for _, row := range rows {
		counts.Set(row.UserID, row.Count)
	}
	return counts, nil
}

func (r *conversationRepository) UnreadFor(ctx context.Context, ids []string, userID string) (map[string]int64, error) {
	out := make(map[string]int64, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var rows []model.ConversationUnread
	err := r.db.WithContext(ctx).Where("conversation_id IN ? AND user_id = ?", ids, userID).Find(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.ConversationID] = row.Count
	}
	return out, nil
}

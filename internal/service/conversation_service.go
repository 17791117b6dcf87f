package service

import (
	"context"
	stderrors "errors"
	"sort"
	"strings"
	"time"

	"social-backend/internal/common"
	"social-backend/internal/model"
	"social-backend/internal/repository/interfaces"
	"social-backend/internal/service/errors"
	"social-backend/internal/util"

	"go.uber.org/zap"
)

const (
	defaultMessagePageSize = 50
	conversationAttempts   = 3
)

var errConversationRace = stderrors.New("conversation created concurrently")

// ConversationService 处理会话和私信。消息、lastMessage 和未读计数在同一事务内更新
type ConversationService struct {
	store    interfaces.Store
	hydrator *Hydrator
}

func NewConversationService(store interfaces.Store, hydrator *Hydrator) *ConversationService {
	return &ConversationService{store: store, hydrator: hydrator}
}

// loadForParticipant 会话不存在返回 404，非参与者返回 403
func (s *ConversationService) loadForParticipant(ctx context.Context, conversationID, userID string) (*model.Conversation, error) {
	conv, err := s.store.Conversations().FindByID(ctx, conversationID)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "failed to load conversation", err)
	}
	if conv == nil {
		return nil, errors.New(errors.ErrNotFound, "Conversation not found")
	}
	if !conv.HasParticipant(userID) {
		return nil, errors.New(errors.ErrForbidden, "Not authorized")
	}
	return conv, nil
}

// GetConversations 返回用户的会话列表，按最后一条消息时间倒序
func (s *ConversationService) GetConversations(ctx context.Context, userID string) ([]*model.ConversationListItem, error) {
	if _, err := requireUser(ctx, s.store.Users(), userID); err != nil {
		return nil, err
	}
	convs, err := s.store.Conversations().ListForUser(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "failed to load conversations", err)
	}

	sort.SliceStable(convs, func(i, j int) bool {
		a, b := convs[i].LastMessage.SentAt, convs[j].LastMessage.SentAt
		switch {
		case a == nil && b == nil:
			return convs[i].UpdatedAt.After(convs[j].UpdatedAt)
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return a.After(*b)
		}
	})

	ids := make([]string, 0, len(convs))
	others := make([]string, 0, len(convs))
	for _, c := range convs {
		ids = append(ids, c.ID)
		others = append(others, c.OtherParticipant(userID))
	}
	unread, err := s.store.Conversations().UnreadFor(ctx, ids, userID)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "failed to load unread counts", err)
	}
	users, err := s.hydrator.Users(ctx, others)
	if err != nil {
		return nil, err
	}

	out := make([]*model.ConversationListItem, 0, len(convs))
	for _, c := range convs {
		out = append(out, &model.ConversationListItem{
			ID:          c.ID,
			OtherUser:   users[c.OtherParticipant(userID)],
			LastMessage: c.LastMessage.View(),
			UnreadCount: unread[c.ID],
			UpdatedAt:   c.UpdatedAt,
		})
	}
	return out, nil
}

// GetOrCreateConversation 查找或创建两人会话，并发创建时依靠唯一索引只保留一个
func (s *ConversationService) GetOrCreateConversation(ctx context.Context, userID, otherID string) (*model.ConversationView, error) {
	if userID == otherID {
		return nil, errors.New(errors.ErrInvalidInput, "Cannot message yourself")
	}
	for _, id := range []string{userID, otherID} {
		user, err := s.store.Users().FindByID(ctx, id)
		if err != nil {
			return nil, errors.Wrap(errors.ErrDatabase, "failed to load user", err)
		}
		if user == nil {
			return nil, errors.New(errors.ErrInvalidInput, "User not found")
		}
	}

	conv, err := s.findOrCreate(ctx, userID, otherID)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, conv)
}

func (s *ConversationService) findOrCreate(ctx context.Context, a, b string) (*model.Conversation, error) {
	var conv *model.Conversation
	err := common.WithRetry(ctx, func() error {
		found, err := s.store.Conversations().FindByParticipants(ctx, a, b)
		if err != nil {
			return errors.Wrap(errors.ErrDatabase, "failed to load conversation", err)
		}
		if found != nil {
			conv = found
			return nil
		}

		candidate := &model.Conversation{ParticipantLow: a, ParticipantHigh: b}
		var created bool
		err = runTx(ctx, s.store, "create conversation", func(tx interfaces.Store) error {
			var err error
			created, err = tx.Conversations().CreateIfAbsent(ctx, candidate)
			if err != nil || !created {
				return err
			}
			return tx.Conversations().InitUnread(ctx, candidate.ID, candidate.Participants())
		})
		if err != nil {
			return err
		}
		if !created {
			// 另一个请求先创建了，重新读取
			return common.Temporary(errConversationRace)
		}

		util.Logger.Info("会话创建成功", zap.String("conversation_id", candidate.ID))
		conv = candidate
		return nil
	}, conversationAttempts, 10*time.Millisecond)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "failed to create conversation", err)
	}
	return conv, nil
}

func (s *ConversationService) view(ctx context.Context, conv *model.Conversation) (*model.ConversationView, error) {
	counts, err := s.store.Conversations().UnreadCounts(ctx, conv.ID)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "failed to load unread counts", err)
	}
	for _, p := range conv.Participants() {
		if _, ok := counts[p]; !ok {
			counts.Set(p, 0)
		}
	}
	users, err := s.hydrator.Users(ctx, conv.Participants())
	if err != nil {
		return nil, err
	}

	v := &model.ConversationView{
		ID:           conv.ID,
		Participants: make([]*model.UserSummary, 0, 2),
		LastMessage:  conv.LastMessage.View(),
		UnreadCount:  counts,
		CreatedAt:    conv.CreatedAt,
		UpdatedAt:    conv.UpdatedAt,
	}
	for _, p := range conv.Participants() {
		if u, ok := users[p]; ok {
			v.Participants = append(v.Participants, u)
		}
	}
	return v, nil
}

// GetMessages 最新的一页按时间正序返回
func (s *ConversationService) GetMessages(ctx context.Context, conversationID, requesterID string, page Page) (*model.MessagePage, error) {
	if _, err := s.loadForParticipant(ctx, conversationID, requesterID); err != nil {
		return nil, err
	}
	page = page.normalize(defaultMessagePageSize)

	msgs, err := s.store.Messages().ListNewestFirst(ctx, conversationID, page.Offset(), page.Limit)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "failed to load messages", err)
	}
	total, err := s.store.Messages().Count(ctx, conversationID)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "failed to count messages", err)
	}

	for i, j := 0, len(msgs)-1; i < j; i, j = i+1, j-1 {
		msgs[i], msgs[j] = msgs[j], msgs[i]
	}
	views, err := s.messageViews(ctx, msgs)
	if err != nil {
		return nil, err
	}
	return &model.MessagePage{
		Messages: views,
		Pagination: model.Pagination{
			Page:    page.Page,
			Limit:   page.Limit,
			Total:   total,
			HasMore: int64(page.Offset()+len(msgs)) < total,
		},
	}, nil
}

func (s *ConversationService) messageViews(ctx context.Context, msgs []*model.Message) ([]*model.MessageView, error) {
	ids := make([]string, 0, len(msgs)*2)
	for _, m := range msgs {
		ids = append(ids, m.SenderID, m.ReceiverID)
	}
	users, err := s.hydrator.Users(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make([]*model.MessageView, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, &model.MessageView{
			ID:           m.ID,
			Conversation: m.ConversationID,
			Sender:       users[m.SenderID],
			Receiver:     users[m.ReceiverID],
			Content:      m.Content,
			Read:         m.Read,
			ReadAt:       m.ReadAt,
			CreatedAt:    m.CreatedAt,
		})
	}
	return out, nil
}

// SendMessage 写入消息、更新 lastMessage、接收者未读数加一，三者同一事务
func (s *ConversationService) SendMessage(ctx context.Context, conversationID, senderID, content string) (*model.MessageView, error) {
	if strings.TrimSpace(content) == "" {
		return nil, errors.New(errors.ErrInvalidInput, "Message content is required")
	}
	if _, err := requireUser(ctx, s.store.Users(), senderID); err != nil {
		return nil, err
	}
	conv, err := s.loadForParticipant(ctx, conversationID, senderID)
	if err != nil {
		return nil, err
	}
	receiverID := conv.OtherParticipant(senderID)

	msg := &model.Message{
		ConversationID: conv.ID,
		SenderID:       senderID,
		ReceiverID:     receiverID,
		Content:        content,
	}
	err = runTx(ctx, s.store, "send message", func(tx interfaces.Store) error {
		if err := tx.Messages().Create(ctx, msg); err != nil {
			return err
		}
		sentAt := msg.CreatedAt
		last := model.LastMessage{Content: content, SenderID: strPtr(senderID), SentAt: &sentAt}
		if err := tx.Conversations().SetLastMessage(ctx, conv.ID, last); err != nil {
			return err
		}
		return tx.Conversations().IncrementUnread(ctx, conv.ID, receiverID, 1)
	})
	if err != nil {
		return nil, err
	}
	util.Logger.Info("消息发送成功", zap.String("conversation_id", conv.ID), zap.String("message_id", msg.ID))

	views, err := s.messageViews(ctx, []*model.Message{msg})
	if err != nil {
		return nil, err
	}
	return views[0], nil
}

// MarkAsRead 标记发给 userID 的未读消息为已读并清零其未读数
func (s *ConversationService) MarkAsRead(ctx context.Context, conversationID, userID string) error {
	if _, err := s.loadForParticipant(ctx, conversationID, userID); err != nil {
		return err
	}

	var marked int64
	err := runTx(ctx, s.store, "mark messages read", func(tx interfaces.Store) error {
		var err error
		if marked, err = tx.Messages().MarkRead(ctx, conversationID, userID, time.Now()); err != nil {
			return err
		}
		return tx.Conversations().SetUnread(ctx, conversationID, userID, 0)
	})
	if err != nil {
		return err
	}
	util.Logger.Info("消息已读", zap.String("conversation_id", conversationID), zap.Int64("count", marked))
	return nil
}

// DeleteConversation 删除会话及其全部消息
func (s *ConversationService) DeleteConversation(ctx context.Context, conversationID, requesterID string) error {
	if _, err := s.loadForParticipant(ctx, conversationID, requesterID); err != nil {
		return err
	}
	err := runTx(ctx, s.store, "delete conversation", func(tx interfaces.Store) error {
		if err := tx.Messages().DeleteByConversation(ctx, conversationID); err != nil {
			return err
		}
		return tx.Conversations().Delete(ctx, conversationID)
	})
	if err != nil {
		return err
	}
	util.Logger.Info("会话已删除", zap.String("conversation_id", conversationID))
	return nil
}

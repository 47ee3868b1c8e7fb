package store

import (
	"github.com/pawhub/communitystore/internal/store/models"
	"go.uber.org/zap"
)

// Repository provides access to all entity models.
type Repository struct {
	user         *models.UserModel
	pet          *models.PetModel
	post         *models.PostModel
	group        *models.GroupModel
	member       *models.MemberModel
	topic        *models.TopicModel
	poll         *models.PollModel
	event        *models.EventModel
	resource     *models.ResourceModel
	activity     *models.ActivityModel
	moderation   *models.ModerationModel
	conversation *models.ConversationModel
}

// NewRepository creates a new repository instance with all models.
func NewRepository(db *models.DB, logger *zap.Logger) *Repository {
	return &Repository{
		user:         models.NewUser(db, logger),
		pet:          models.NewPet(db, logger),
		post:         models.NewPost(db, logger),
		group:        models.NewGroup(db, logger),
		member:       models.NewMember(db, logger),
		topic:        models.NewTopic(db, logger),
		poll:         models.NewPoll(db, logger),
		event:        models.NewEvent(db, logger),
		resource:     models.NewResource(db, logger),
		activity:     models.NewActivity(db, logger),
		moderation:   models.NewModeration(db, logger),
		conversation: models.NewConversation(db, logger),
	}
}

// User returns the user model repository.
func (r *Repository) User() *models.UserModel {
	return r.user
}

// Pet returns the pet model repository.
func (r *Repository) Pet() *models.PetModel {
	return r.pet
}

// Post returns the post model repository.
func (r *Repository) Post() *models.PostModel {
	return r.post
}

// Group returns the group model repository.
func (r *Repository) Group() *models.GroupModel {
	return r.group
}

// Member returns the membership model repository.
func (r *Repository) Member() *models.MemberModel {
	return r.member
}

// Topic returns the topic model repository.
func (r *Repository) Topic() *models.TopicModel {
	return r.topic
}

// Poll returns the poll model repository.
func (r *Repository) Poll() *models.PollModel {
	return r.poll
}

// Event returns the event model repository.
func (r *Repository) Event() *models.EventModel {
	return r.event
}

// Resource returns the resource model repository.
func (r *Repository) Resource() *models.ResourceModel {
	return r.resource
}

// Activity returns the activity feed model repository.
func (r *Repository) Activity() *models.ActivityModel {
	return r.activity
}

// Moderation returns the moderation model repository.
func (r *Repository) Moderation() *models.ModerationModel {
	return r.moderation
}

// Conversation returns the conversation model repository.
func (r *Repository) Conversation() *models.ConversationModel {
	return r.conversation
}

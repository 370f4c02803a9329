package chatexport

// MessageType различает обычные сообщения и служебные события в поле "type".
type MessageType string

const (
	TypeMessage MessageType = "message"
	TypeService MessageType = "service"
)

// Known сообщает, входит ли значение в словарь.
func (t MessageType) Known() bool {
	return t == TypeMessage || t == TypeService
}

// ChatType — категория экспортированного чата.
type ChatType string

const (
	ChatPersonal          ChatType = "personal_chat"
	ChatBot               ChatType = "bot_chat"
	ChatSavedMessages     ChatType = "saved_messages"
	ChatPrivateGroup      ChatType = "private_group"
	ChatPrivateSupergroup ChatType = "private_supergroup"
	ChatPublicSupergroup  ChatType = "public_supergroup"
	ChatPrivateChannel    ChatType = "private_channel"
	ChatPublicChannel     ChatType = "public_channel"
)

var chatTypes = vocabulary(
	ChatPersonal,
	ChatBot,
	ChatSavedMessages,
	ChatPrivateGroup,
	ChatPrivateSupergroup,
	ChatPublicSupergroup,
	ChatPrivateChannel,
	ChatPublicChannel,
)

// Known сообщает, входит ли значение в словарь.
func (t ChatType) Known() bool {
	_, ok := chatTypes[t]
	return ok
}

// Action — вид служебного события.
type Action string

const (
	ActionAllowSendingMessages Action = "allow_sending_messages"
	ActionBoostApply           Action = "boost_apply"
	ActionClearHistory         Action = "clear_history"
	ActionCreateChannel        Action = "create_channel"
	ActionCreateGroup          Action = "create_group"
	ActionDeleteGroupPhoto     Action = "delete_group_photo"
	ActionEditChatTheme        Action = "edit_chat_theme"
	ActionEditGroupPhoto       Action = "edit_group_photo"
	ActionEditGroupTitle       Action = "edit_group_title"
	ActionGiveawayLaunch       Action = "giveaway_launch"
	ActionGiveawayResults      Action = "giveaway_results"
	ActionGroupCall            Action = "group_call"
	ActionGroupCallScheduled   Action = "group_call_scheduled"
	ActionInviteMembers        Action = "invite_members"
	ActionInviteToGroupCall    Action = "invite_to_group_call"
	ActionJoinGroupByLink      Action = "join_group_by_link"
	ActionJoinGroupByRequest   Action = "join_group_by_request"
	ActionMigrateFromGroup     Action = "migrate_from_group"
	ActionMigrateToSupergroup  Action = "migrate_to_supergroup"
	ActionPhoneCall            Action = "phone_call"
	ActionPinMessage           Action = "pin_message"
	ActionRemoveMembers        Action = "remove_members"
	ActionScoreInGame          Action = "score_in_game"
	ActionSetMessagesTTL       Action = "set_messages_ttl"
	ActionTopicCreated         Action = "topic_created"
	ActionTopicEdit            Action = "topic_edit"
)

var actions = vocabulary(
	ActionAllowSendingMessages,
	ActionBoostApply,
	ActionClearHistory,
	ActionCreateChannel,
	ActionCreateGroup,
	ActionDeleteGroupPhoto,
	ActionEditChatTheme,
	ActionEditGroupPhoto,
	ActionEditGroupTitle,
	ActionGiveawayLaunch,
	ActionGiveawayResults,
	ActionGroupCall,
	ActionGroupCallScheduled,
	ActionInviteMembers,
	ActionInviteToGroupCall,
	ActionJoinGroupByLink,
	ActionJoinGroupByRequest,
	ActionMigrateFromGroup,
	ActionMigrateToSupergroup,
	ActionPhoneCall,
	ActionPinMessage,
	ActionRemoveMembers,
	ActionScoreInGame,
	ActionSetMessagesTTL,
	ActionTopicCreated,
	ActionTopicEdit,
)

// Known сообщает, входит ли значение в словарь.
func (a Action) Known() bool {
	_, ok := actions[a]
	return ok
}

// TextObjectType — вид форматированного фрагмента текста.
type TextObjectType string

const (
	EntityBankCard      TextObjectType = "bank_card"
	EntityBlockquote    TextObjectType = "blockquote"
	EntityBold          TextObjectType = "bold"
	EntityBotCommand    TextObjectType = "bot_command"
	EntityCashtag       TextObjectType = "cashtag"
	EntityCode          TextObjectType = "code"
	EntityCustomEmoji   TextObjectType = "custom_emoji"
	EntityEmail         TextObjectType = "email"
	EntityHashtag       TextObjectType = "hashtag"
	EntityItalic        TextObjectType = "italic"
	EntityLink          TextObjectType = "link"
	EntityMention       TextObjectType = "mention"
	EntityMentionName   TextObjectType = "mention_name"
	EntityPhone         TextObjectType = "phone"
	EntityPlain         TextObjectType = "plain"
	EntityPre           TextObjectType = "pre"
	EntitySpoiler       TextObjectType = "spoiler"
	EntityStrikethrough TextObjectType = "strikethrough"
	EntityTextLink      TextObjectType = "text_link"
	EntityUnderline     TextObjectType = "underline"
)

var textObjectTypes = vocabulary(
	EntityBankCard,
	EntityBlockquote,
	EntityBold,
	EntityBotCommand,
	EntityCashtag,
	EntityCode,
	EntityCustomEmoji,
	EntityEmail,
	EntityHashtag,
	EntityItalic,
	EntityLink,
	EntityMention,
	EntityMentionName,
	EntityPhone,
	EntityPlain,
	EntityPre,
	EntitySpoiler,
	EntityStrikethrough,
	EntityTextLink,
	EntityUnderline,
)

// Known сообщает, входит ли значение в словарь.
func (t TextObjectType) Known() bool {
	_, ok := textObjectTypes[t]
	return ok
}

func vocabulary[T ~string](values ...T) map[T]struct{} {
	m := make(map[T]struct{}, len(values))
	for _, v := range values {
		m[v] = struct{}{}
	}
	return m
}

package application

import (
	"fmt"
	"strings"

	"github.com/abdallah-zarea/savior-bot/internal/domain"
)

const (
	textWelcome  = "👋 Welcome! Send your question here and an operator will answer you as soon as possible."
	textReceived = "✅ Message received. Please wait for an operator to reply."
	textRetry    = "⚠️ Could not reach the operator, please send your message again."
	textJoined   = "👨‍💻 An operator is now talking with you."
	textEnded    = "✅ The operator has closed this conversation. Thank you for reaching out."

	textNotInConversation = "⚠️ Reply to a ticket message to answer a requester, or claim a ticket first."
	textUnresolved        = "⚠️ That message is not linked to any requester anymore. Reply to a recent ticket."
	textSent              = "✅ Sent."
	textFree              = "🔓 Conversation closed. You are free now."
	textClosed            = "✅ Conversation ended."
	textAlreadyEnded      = "⚠️ This conversation has already ended."
	textAlreadyYours      = "⚠️ You are already talking with this requester."
	textNotYours          = "This is not your conversation."
	textControllerOnly    = "Controller only."
	textNotOperator       = "Operators only."
	textBroadcastHelp     = "📢 To broadcast, reply to a message with /broadcast or write /broadcast <text>."

	textLongformNonText     = "⚠️ Longform mode accepts text only. Send the file outside longform or /discard the draft."
	textLongformNone        = "⚠️ No longform draft is open. Start one with /longform <id> or by replying /longform to a ticket."
	textLongformActive      = "⚠️ Finish the current draft with /send or /discard it first."
	textLongformLost        = "⚠️ Your claim on this conversation was released, the draft was discarded."
	textLongformEmpty       = "⚠️ The draft was empty, nothing was sent. The conversation is released."
	textLongformDiscard     = "🗑 Draft discarded and conversation released."
	textLongformNeedsTarget = "⚠️ Use /longform <id> or reply /longform to a ticket."

	textHelp = "Operator commands:\n" +
		"/admin - control panel\n" +
		"/stats - directory and claim counts\n" +
		"/ban <id> - ban a requester\n" +
		"/unban <id> - lift a ban\n" +
		"/broadcast <text> - message every requester (or reply to a message)\n" +
		"/longform [id] - compose a multi-part reply\n" +
		"/send - deliver the longform draft\n" +
		"/discard - drop the longform draft\n" +
		"/release_all - release every conversation (controller)\n\n" +
		"Reply to a forwarded message to answer its requester."

	labelClaim      = "🙋 Claim"
	labelRelease    = "❌ End conversation"
	labelStats      = "📊 Stats"
	labelReleaseAll = "☢️ Release all"
	labelBroadcast  = "📢 Broadcast"
)

func ticketText(requester domain.Requester) string {
	handle := "-"
	if requester.Handle != "" {
		handle = "@" + requester.Handle
	}
	return fmt.Sprintf("📩 New ticket\n👤 %s\n🆔 %s\n🔗 %s", requesterName(requester), requester.ID, handle)
}

func ownedTicketText() string {
	return "👆 New message in your conversation."
}

func claimedText(requester domain.Requester) string {
	return fmt.Sprintf("🟢 Conversation with %s started.\nIt is locked to you, reply to their messages here.", requesterName(requester))
}

func claimedByText(owner string) string {
	return fmt.Sprintf("🔒 Claimed by %s", owner)
}

func takenAlert(owner string) string {
	return fmt.Sprintf("⛔ %s got there first!", owner)
}

func lockedText(owner string) string {
	return fmt.Sprintf("🔒 Locked by another operator (%s).", owner)
}

func deliveryFailedText(err error) string {
	return fmt.Sprintf("❌ Delivery failed, the requester may have blocked the bot: %v", err)
}

func newRequesterText(requester domain.Requester) string {
	return fmt.Sprintf("🆕 New requester: %s (%s)", requesterName(requester), requester.ID)
}

func claimNoticeText(operator string, requester domain.RequesterID) string {
	return fmt.Sprintf("🔒 %s started a conversation with %s", operator, requester)
}

func releaseNoticeText(operator string, requester domain.RequesterID) string {
	return fmt.Sprintf("🔓 %s ended the conversation with %s", operator, requester)
}

func mirrorHeading(operator string, requester domain.RequesterID) string {
	return fmt.Sprintf("👁 %s replied to %s:", operator, requester)
}

func releasedAllText(claims, sessions int) string {
	return fmt.Sprintf("☢️ Released %d conversations and dropped %d drafts.", claims, sessions)
}

func releasedByControllerText(requester domain.RequesterID) string {
	return fmt.Sprintf("🔓 Your conversation with %s was released by the controller.", requester)
}

func bannedText(id domain.RequesterID, changed bool) string {
	if !changed {
		return fmt.Sprintf("%s is already banned.", id)
	}
	return fmt.Sprintf("⛔ Banned %s", id)
}

func unbannedText(id domain.RequesterID, changed bool) string {
	if !changed {
		return fmt.Sprintf("%s is not banned.", id)
	}
	return fmt.Sprintf("✅ Unbanned %s", id)
}

func usageText(command string) string {
	return fmt.Sprintf("Usage: /%s <id>", command)
}

func broadcastStartText(n int) string {
	return fmt.Sprintf("⏳ Broadcasting to %d requesters...", n)
}

func broadcastDoneText(report BroadcastReport) string {
	return fmt.Sprintf("📢 Broadcast finished: %d delivered, %d failed.", report.Delivered, report.Failed)
}

func longformStartText(requester domain.RequesterID) string {
	return fmt.Sprintf("📝 Longform draft for %s. Send text messages, then /send to deliver or /discard to drop.", requester)
}

func longformBufferedText(n int) string {
	return fmt.Sprintf("📝 Part %d saved.", n)
}

func longformSentText(requester domain.RequesterID, chunks int) string {
	return fmt.Sprintf("✅ Draft delivered to %s in %d message(s). Conversation released.", requester, chunks)
}

func longformPartialText(sent, total int, err error) string {
	return fmt.Sprintf("❌ Draft delivery stopped after %d of %d message(s): %v", sent, total, err)
}

func statsText(stats Stats) string {
	var b strings.Builder
	fmt.Fprintf(&b, "👥 Requesters: %d\n", stats.Requesters)
	fmt.Fprintf(&b, "⛔ Banned: %d\n", stats.Banned)
	fmt.Fprintf(&b, "🔒 Active conversations: %d\n", stats.ActiveClaims)
	fmt.Fprintf(&b, "📝 Longform drafts: %d\n", stats.LongformSessions)
	fmt.Fprintf(&b, "🧑‍💻 Operators: %d", stats.Operators)
	return b.String()
}

func requesterName(requester domain.Requester) string {
	return domain.Sender{ID: string(requester.ID), DisplayName: requester.DisplayName, Handle: requester.Handle}.Name()
}

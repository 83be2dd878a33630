package assistant

import (
	"fmt"
	"strings"

	"github.com/magabrotheeeer/destipicker/internal/models"
)

const cannedNote = " (Note: Real AI requires GEMINI_API_KEY)"

type tool struct {
	name   models.Tool
	images int // Сколько изображений нужно для анализа со списанием квоты

	persona      string
	imageTask    string
	imageRequest string
	textPrompt   string

	cannedImage string
	cannedText  string
}

var menuTool = tool{
	name:         models.ToolMenu,
	images:       1,
	persona:      "You are a friendly food expert and restaurant guide.",
	imageTask:    "Analyze this restaurant menu. Identify the most unique or highly-likely-to-be-best dish based on descriptions, pricing, and layout. Recommend just one top choice and explain why briefly. Be enthusiastic and address the user directly.",
	imageRequest: "The user has shared a menu photo and says: %q. Analyze the menu considering their request and our previous conversation context. Be helpful, specific, and enthusiastic about food. Address the user directly.",
	textPrompt: "You are a friendly, knowledgeable food expert AI assistant.%sThe user asks: %q.\n\n" +
		"Provide helpful food advice. Be concise but thorough. If they're asking about dishes, cuisines, dietary preferences, or restaurant recommendations, give practical suggestions.\n" +
		"If they want menu analysis, suggest they upload a menu photo. Address them directly and be enthusiastic about food!",
	cannedImage: "Based on this menu, the **Truffle Mushroom Risotto** is the standout dish. It's often a chef's specialty and reviews suggest it's a must-try here!",
	cannedText:  "Great food question! Here's my take: %s. For menu-specific recommendations, try uploading a photo of the menu!",
}

var outfitTool = tool{
	name:         models.ToolOutfit,
	images:       2,
	persona:      "You are a professional fashion stylist.",
	imageTask:    "Compare these two outfits. Which one is better for a general social outing or date? Explain why briefly and choose a winner. Address the user directly.",
	imageRequest: "The user has shared two outfit options and says: %q. Compare these outfits considering their request and our previous conversation context. Be helpful, friendly, and give specific advice. Address the user directly.",
	textPrompt: "You are a friendly, knowledgeable fashion stylist AI assistant.%sThe user asks: %q.\n\n" +
		"Provide helpful fashion advice. Be concise but thorough. If they're asking about specific clothing, colors, or styles, give practical recommendations.\n" +
		"If they want outfit comparisons, suggest they upload photos. Address them directly and be encouraging!",
	cannedImage: "I recommend **Outfit 1**! The color palette compliments your style better and the silhouette is more modern and versatile.",
	cannedText:  "Great question! As your AI stylist, here's my advice: %s. For personalized recommendations, try uploading outfit photos!",
}

func (t tool) prompt(withImages bool, message string, history []Turn) string {
	ctx := historyContext(history)
	if !withImages {
		return fmt.Sprintf(t.textPrompt, ctx, message)
	}
	if message == "" {
		return t.persona + ctx + t.imageTask
	}
	return t.persona + ctx + fmt.Sprintf(t.imageRequest, message)
}

func (t tool) canned(withImages bool, message string) string {
	if withImages {
		return t.cannedImage + cannedNote
	}
	return fmt.Sprintf(t.cannedText, message) + cannedNote
}

func historyContext(history []Turn) string {
	if len(history) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("\n\nPrevious conversation:\n")
	for i, h := range history {
		if i > 0 {
			b.WriteByte('\n')
		}
		speaker := "Assistant"
		if h.Role == "user" {
			speaker = "User"
		}
		b.WriteString(speaker + ": " + h.Content)
	}
	b.WriteString("\n\n")
	return b.String()
}

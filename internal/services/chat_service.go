package services

import (
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/Atwoto/solara-mvp-sub000/internal/repositories"
)

// Completer is the opaque text-completion service behind the chat assistant.
type Completer interface {
	Complete(prompt string) (string, error)
}

// ChatAction is a cart or wishlist mutation the assistant asked for.
type ChatAction struct {
	Command   string `json:"command"`
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity,omitempty"`
	Applied   bool   `json:"applied"`
}

// ChatReply is the assistant's answer plus any actions it performed.
type ChatReply struct {
	Message string       `json:"message"`
	Actions []ChatAction `json:"actions,omitempty"`
}

// ChatService bridges the storefront to the completion service: it builds a
// knowledge snapshot from catalog, cart, wishlist and CMS content, and
// applies the tool commands the completion emits.
//
// Command grammar, one per line in the completion output:
//
//	ADD_TO_CART:<product id>:<quantity>
//	REMOVE_FROM_CART:<product id>
//	MOVE_TO_CART:<product id>
type ChatService struct {
	products  repositories.ProductRepository
	blog      repositories.BlogRepository
	pages     repositories.ServicePageRepository
	carts     *CartService
	wishlist  *WishlistService
	completer Completer
}

// NewChatService creates a new ChatService.
func NewChatService(
	products repositories.ProductRepository,
	blog repositories.BlogRepository,
	pages repositories.ServicePageRepository,
	carts *CartService,
	wishlist *WishlistService,
	completer Completer,
) *ChatService {
	return &ChatService{
		products:  products,
		blog:      blog,
		pages:     pages,
		carts:     carts,
		wishlist:  wishlist,
		completer: completer,
	}
}

// Ask answers a customer message. The completion sees a snapshot of the
// catalog and the caller's cart/wishlist; any commands it returns are applied
// through the same stores the rest of the app uses.
func (s *ChatService) Ask(owner CartOwner, message string) (*ChatReply, error) {
	if s.completer == nil {
		return nil, fmt.Errorf("chat assistant is not configured")
	}
	if strings.TrimSpace(message) == "" {
		return nil, &ValidationError{Fields: map[string]string{"message": "message is required"}}
	}

	prompt, err := s.buildPrompt(owner, message)
	if err != nil {
		return nil, fmt.Errorf("failed to build chat prompt: %w", err)
	}

	completion, err := s.completer.Complete(prompt)
	if err != nil {
		return nil, fmt.Errorf("chat completion failed: %w", err)
	}

	reply, actions := s.applyCommands(owner, completion)
	return &ChatReply{Message: reply, Actions: actions}, nil
}

func (s *ChatService) buildPrompt(owner CartOwner, message string) (string, error) {
	var b strings.Builder
	b.WriteString("You are the assistant of a solar equipment store. Answer from the knowledge below.\n")
	b.WriteString("To change the customer's cart, emit a line: ADD_TO_CART:<id>:<qty>, REMOVE_FROM_CART:<id> or MOVE_TO_CART:<id>.\n\n")

	products, err := s.products.GetAll()
	if err != nil {
		return "", err
	}
	b.WriteString("CATALOG:\n")
	for _, p := range products {
		fmt.Fprintf(&b, "- %s (id %s, category %s, price %d", p.Name, p.ID, p.Category, p.PriceMinor)
		if p.Wattage != nil {
			fmt.Fprintf(&b, ", %dW", *p.Wattage)
		}
		b.WriteString(")\n")
	}

	items, err := s.carts.For(owner).Get()
	if err != nil {
		return "", err
	}
	b.WriteString("\nCART:\n")
	for _, item := range items {
		fmt.Fprintf(&b, "- %s x%d (id %s)\n", item.ProductName, item.Quantity, item.ProductID)
	}

	if owner.Authenticated() {
		saved, err := s.wishlist.List(owner.UserID)
		if err != nil {
			return "", err
		}
		b.WriteString("\nWISHLIST:\n")
		for _, p := range saved {
			fmt.Fprintf(&b, "- %s (id %s)\n", p.Name, p.ID)
		}
	}

	// Published CMS titles give the assistant topics it can point to.
	if posts, err := s.blog.GetAll(true); err == nil {
		b.WriteString("\nBLOG ARTICLES:\n")
		for _, p := range posts {
			fmt.Fprintf(&b, "- %s (/blog/%s)\n", p.Title, p.Slug)
		}
	}
	if pages, err := s.pages.GetAll(true); err == nil {
		b.WriteString("\nSERVICES:\n")
		for _, p := range pages {
			fmt.Fprintf(&b, "- %s (/services/%s)\n", p.Title, p.Slug)
		}
	}

	b.WriteString("\nCUSTOMER: ")
	b.WriteString(message)
	return b.String(), nil
}

// applyCommands executes command lines from the completion and strips them
// from the visible reply. A failing command is reported as not applied but
// never fails the chat itself.
func (s *ChatService) applyCommands(owner CartOwner, completion string) (string, []ChatAction) {
	var visible []string
	var actions []ChatAction

	for _, line := range strings.Split(completion, "\n") {
		trimmed := strings.TrimSpace(line)
		parts := strings.Split(trimmed, ":")
		switch {
		case strings.HasPrefix(trimmed, "ADD_TO_CART:") && len(parts) >= 2:
			qty := 1
			if len(parts) >= 3 {
				if n, err := strconv.Atoi(parts[2]); err == nil && n > 0 {
					qty = n
				}
			}
			actions = append(actions, s.addToCart(owner, parts[1], qty))
		case strings.HasPrefix(trimmed, "REMOVE_FROM_CART:") && len(parts) >= 2:
			action := ChatAction{Command: "REMOVE_FROM_CART", ProductID: parts[1]}
			if _, err := s.carts.For(owner).Remove(parts[1]); err != nil {
				log.Printf("Chat command REMOVE_FROM_CART %s failed: %v", parts[1], err)
			} else {
				action.Applied = true
			}
			actions = append(actions, action)
		case strings.HasPrefix(trimmed, "MOVE_TO_CART:") && len(parts) >= 2:
			action := ChatAction{Command: "MOVE_TO_CART", ProductID: parts[1], Quantity: 1}
			if !owner.Authenticated() {
				log.Printf("Chat command MOVE_TO_CART %s ignored for guest", parts[1])
			} else if _, err := s.wishlist.MoveToCart(owner.UserID, parts[1], s.carts.For(owner)); err != nil {
				log.Printf("Chat command MOVE_TO_CART %s failed: %v", parts[1], err)
			} else {
				action.Applied = true
			}
			actions = append(actions, action)
		default:
			visible = append(visible, line)
		}
	}

	return strings.TrimSpace(strings.Join(visible, "\n")), actions
}

func (s *ChatService) addToCart(owner CartOwner, productID string, qty int) ChatAction {
	action := ChatAction{Command: "ADD_TO_CART", ProductID: productID, Quantity: qty}
	product, err := s.products.GetByID(productID)
	if err != nil {
		log.Printf("Chat command ADD_TO_CART %s failed: %v", productID, err)
		return action
	}
	if _, err := s.carts.For(owner).Add(product, qty); err != nil {
		log.Printf("Chat command ADD_TO_CART %s failed: %v", productID, err)
		return action
	}
	action.Applied = true
	return action
}

// Package orchestrator runs the bounded tool-calling loop that turns an
// inbound chat message into replies and side effects.
package orchestrator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/hugodowson2242/whatsapp-calendar-bot/internal/agent"
	"github.com/hugodowson2242/whatsapp-calendar-bot/internal/googleauth"
	"github.com/hugodowson2242/whatsapp-calendar-bot/internal/user"
	"github.com/hugodowson2242/whatsapp-calendar-bot/pkg/claude"
)

// HandleMessage processes one inbound message end to end. It is meant
// to run on the per-chat serializer, so at most one run per chat is in
// flight at a time.
func (o *Orchestrator) HandleMessage(ctx context.Context, chatID, text string) {
	refreshToken, err := o.users.RefreshToken(chatID)
	if errors.Is(err, user.ErrNoToken) {
		// Unauthenticated users get a login link and nothing enters
		// the conversation history.
		o.send(ctx, chatID, fmt.Sprintf(MsgAuthRequired, o.auth.LoginURL(chatID)))
		return
	}
	if err != nil {
		// A store failure is not "not authenticated"; don't send an
		// authenticated user back through the consent flow.
		o.l.Errorf(ctx, "%s: load refresh token: %v", LogPrefixHandleMessage, err)
		o.send(ctx, chatID, MsgGenericFailure)
		return
	}

	google, err := o.auth.NewClients(ctx, refreshToken)
	if err == nil {
		err = o.run(ctx, chatID, text, google)
	}
	if err == nil {
		return
	}

	o.l.Errorf(ctx, "%s: %v", LogPrefixHandleMessage, err)

	if googleauth.IsReauthRequired(err) {
		if clearErr := o.users.ClearRefreshToken(chatID); clearErr != nil {
			o.l.Errorf(ctx, "%s: clear refresh token: %v", LogPrefixHandleMessage, clearErr)
		}
		o.send(ctx, chatID, fmt.Sprintf(MsgAuthExpired, o.auth.LoginURL(chatID)))
		return
	}
	o.send(ctx, chatID, MsgGenericFailure)
}

func (o *Orchestrator) run(ctx context.Context, chatID, text string, google *agent.GoogleClients) error {
	o.conversations.Append(chatID, claude.NewTextMessage(claude.RoleUser, text))

	toolCalls := 0
	for toolCalls < MaxToolCalls {
		resp, err := o.llm.CreateMessage(ctx, &claude.Request{
			System:   o.systemPrompt(chatID),
			Messages: o.conversations.Get(chatID),
			Tools:    o.registry.ToolDefinitions(),
		})
		if err != nil {
			return fmt.Errorf("llm call: %w", err)
		}

		toolUses := claude.ToolUses(resp)

		// No tool calls: the text is the final reply.
		if len(toolUses) == 0 {
			if reply := claude.Text(resp); reply != "" {
				o.conversations.Append(chatID, claude.NewTextMessage(claude.RoleAssistant, reply))
				o.sendAsync(ctx, chatID, reply)
			}
			return nil
		}

		// Validate every requested tool before executing any.
		for _, use := range toolUses {
			if _, ok := o.registry.Get(use.Name); !ok {
				o.l.Errorf(ctx, "%s: unknown tool %q", LogPrefixHandleMessage, use.Name)
				o.sendAsync(ctx, chatID, fmt.Sprintf(MsgUnknownTool, use.Name))
				return nil
			}
		}

		outputs, errs := o.executeAll(ctx, chatID, google, toolUses)
		toolCalls += len(toolUses)

		// The assistant turn and its tool results are recorded even
		// when a call failed, so the history keeps every tool_use
		// paired with a tool_result.
		o.conversations.Append(chatID, claude.MessageParam{
			Role:    claude.RoleAssistant,
			Content: resp.Content,
		})
		o.conversations.Append(chatID, claude.MessageParam{
			Role:    claude.RoleUser,
			Content: toolResults(toolUses, outputs, errs),
		})

		for _, err := range errs {
			if googleauth.IsReauthRequired(err) {
				return err
			}
		}

		var userMessages []string
		done := false
		for _, out := range outputs {
			if out == nil {
				continue
			}
			if out.UserMessage != "" {
				userMessages = append(userMessages, out.UserMessage)
			}
			if out.Done {
				done = true
			}
		}
		if len(userMessages) > 0 {
			o.sendAsync(ctx, chatID, strings.Join(userMessages, "\n"))
		}
		if len(userMessages) > 0 || done {
			return nil
		}
	}

	o.sendAsync(ctx, chatID, MsgTooManyOperations)
	return nil
}

// executeAll fans the batch out and waits for every tool to finish.
func (o *Orchestrator) executeAll(ctx context.Context, chatID string, google *agent.GoogleClients, toolUses []claude.ToolUse) ([]*agent.Output, []error) {
	outputs := make([]*agent.Output, len(toolUses))
	errs := make([]error, len(toolUses))

	var wg sync.WaitGroup
	for i, use := range toolUses {
		wg.Add(1)
		go func(i int, use claude.ToolUse) {
			defer wg.Done()
			// A panicking executor must not take the process down; it
			// becomes a failed tool result like any other error.
			defer func() {
				if r := recover(); r != nil {
					errs[i] = fmt.Errorf("tool %s panicked: %v", use.Name, r)
					o.l.Errorf(ctx, "%s: %v", LogPrefixHandleMessage, errs[i])
				}
			}()
			tool, _ := o.registry.Get(use.Name)
			o.l.Infof(ctx, "%s: calling tool %s", LogPrefixHandleMessage, use.Name)
			outputs[i], errs[i] = tool.Execute(ctx, agent.Request{
				Invocation: agent.Invocation{ID: use.ID, Name: use.Name, Input: use.Input},
				ChatID:     chatID,
				Google:     google,
			})
			if errs[i] != nil {
				o.l.Errorf(ctx, "%s: tool %s failed: %v", LogPrefixHandleMessage, use.Name, errs[i])
			}
		}(i, use)
	}
	wg.Wait()

	return outputs, errs
}

// toolResults builds the single user turn holding one tool_result per
// tool_use, in the same order.
func toolResults(toolUses []claude.ToolUse, outputs []*agent.Output, errs []error) []claude.ContentBlock {
	blocks := make([]claude.ContentBlock, len(toolUses))
	for i, use := range toolUses {
		block := claude.ContentBlock{
			Type:      claude.BlockTypeToolResult,
			ToolUseID: use.ID,
		}
		if errs[i] != nil {
			block.Content = "Error: " + errs[i].Error()
			block.IsError = true
		} else {
			raw, err := json.Marshal(outputs[i].Data)
			if err != nil {
				block.Content = "Error: " + err.Error()
				block.IsError = true
			} else {
				block.Content = string(raw)
			}
		}
		blocks[i] = block
	}
	return blocks
}

// send delivers synchronously and logs delivery failures.
func (o *Orchestrator) send(ctx context.Context, chatID, text string) {
	if err := o.sender.SendText(chatID, text); err != nil {
		o.l.Errorf(ctx, "%s: send reply: %v", LogPrefixHandleMessage, err)
	}
}

// sendAsync delivers without blocking the loop; failures are logged.
func (o *Orchestrator) sendAsync(ctx context.Context, chatID, text string) {
	go o.send(ctx, chatID, text)
}

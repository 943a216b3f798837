package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/venkatramks/legal-ai-frontend/model"
)

var (
	chatDelete bool
)

var chatCmd = &cobra.Command{
	Use:   "chat <document-id>",
	Short: "Chat about a document",
	Long: `Open an interactive chat session for a document. Existing history is
loaded first; type a message and press enter, or 'exit' to quit.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, _, controller := newController()
		if err := selectDocument(cmd, client, controller, args[0]); err != nil {
			return err
		}

		if chatDelete {
			if err := controller.DeleteChat(); err != nil {
				return err
			}
			fmt.Println(headerStyle.Render("Chat history deleted"))
			return nil
		}

		if err := controller.LoadHistory(); err != nil {
			return err
		}
		for _, msg := range controller.Chat().Messages() {
			printMessage(msg)
		}

		scanner := bufio.NewScanner(os.Stdin)
		for {
			fmt.Print(userStyle.Render("you> "))
			if !scanner.Scan() {
				return scanner.Err()
			}
			line := strings.TrimSpace(scanner.Text())
			if line == "exit" || line == "quit" {
				return nil
			}
			if line == "" {
				continue
			}

			reply, err := controller.SendMessage(line)
			if err != nil {
				fmt.Fprintln(os.Stderr, errorStyle.Render(controller.Error()))
				controller.DismissError()
				continue
			}
			printMessage(*reply)
		}
	},
}

func printMessage(msg model.ChatMessage) {
	switch msg.Role {
	case model.RoleUser:
		fmt.Println(userStyle.Render("you> ") + msg.Message)
	default:
		fmt.Println(assistantStyle.Render("assistant> " + msg.Message))
	}
}

func init() {
	rootCmd.AddCommand(chatCmd)
	chatCmd.Flags().BoolVar(&chatDelete, "delete", false, "Delete the document's chat history instead of chatting")
}

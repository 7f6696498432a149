package contact

import (
	"fmt"
	"strings"

	"github.com/tartampluch/go-contacts/internal/config"
)

// Separator is the rule printed above and below every rendered contact.
var Separator = strings.Repeat(config.SeparatorChar, config.SeparatorWidth)

// Block renders c as a delimited, labelled block without a trailing newline.
func (c Contact) Block() string {
	var phones []string
	for _, p := range c.Phones {
		if p != "" {
			phones = append(phones, p)
		}
	}

	lines := []string{
		Separator,
		fmt.Sprintf(config.FormatLabel, config.LabelName, c.Name),
		fmt.Sprintf(config.FormatLabel, config.LabelPhones, strings.Join(phones, config.PhoneJoiner)),
		fmt.Sprintf(config.FormatLabel, config.LabelBirthday, FormatBirthday(c.Birthday)),
		fmt.Sprintf(config.FormatLabel, config.LabelEmail, c.Email),
		fmt.Sprintf(config.FormatLabel, config.LabelStatus, c.Status),
		fmt.Sprintf(config.FormatLabel, config.LabelNote, c.Note),
		Separator,
	}
	return strings.Join(lines, "\n")
}

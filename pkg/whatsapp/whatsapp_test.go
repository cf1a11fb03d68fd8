package whatsapp_test

import (
	"testing"

	"lapak/pkg/whatsapp"

	"github.com/stretchr/testify/assert"
)

func TestCleanPhone(t *testing.T) {
	assert.Equal(t, "2341234567890", whatsapp.CleanPhone("+234 123 456 7890"))
	assert.Equal(t, "15550100099", whatsapp.CleanPhone("+1 (555) 010-0099"))
	assert.Equal(t, "", whatsapp.CleanPhone("no digits here"))
}

func TestChatURL(t *testing.T) {
	assert.Equal(t, "https://wa.me/15550100099", whatsapp.ChatURL("+1 555 010 0099", ""))
	assert.Equal(t,
		"https://wa.me/15550100099?text=Hello+there%21",
		whatsapp.ChatURL("+1 555 010 0099", "Hello there!"))
}

func TestAppURL(t *testing.T) {
	assert.Equal(t,
		"whatsapp://send?phone=15550100099&text=Hi",
		whatsapp.AppURL("+1 555 010 0099", "Hi"))
}

func TestOrderMessage(t *testing.T) {
	assert.Equal(t,
		"Hi! I'm interested in ordering Laptop for $1200.00. Can you provide more details?",
		whatsapp.OrderMessage("Laptop", 1200))
}

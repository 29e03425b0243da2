// Package i18n holds the translated texts of notifications and statements.
package i18n

import (
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"

	"github.com/iho/bonusledger/internal/domain"
)

// Message keys
const (
	KeyKindMoney = "kind.money"
	KeyKindBonus = "kind.bonus"

	KeyEntryAdded       = "entry.added"
	KeyEntryRemoved     = "entry.removed"
	KeyEntryCorrected   = "entry.corrected"
	KeyEntryDescription = "entry.description"
	KeyDocumentReversed = "document.reversed"
	KeyRoleGranted      = "role.granted"
	KeyRoleRevoked      = "role.revoked"

	KeyStatementTitle   = "statement.title"
	KeyStatementAccount = "statement.account"
	KeyStatementOpening = "statement.opening"
	KeyStatementColumns = "statement.columns"
	KeyStatementEmpty   = "statement.empty"
	KeyStatementTotals  = "statement.totals"
	KeyStatementClosing = "statement.closing"
	KeyStatementPage    = "statement.page"
)

var translations = map[language.Tag]map[string]string{
	language.English: {
		KeyKindMoney:        "money",
		KeyKindBonus:        "bonus points",
		KeyEntryAdded:       "+%d %s (document %s). Balance: %d",
		KeyEntryRemoved:     "-%d %s (document %s). Balance: %d",
		KeyEntryCorrected:   "Document %s corrected: %s changed from %d to %d. Balance: %d",
		KeyEntryDescription: "%s\nDescription: %s",
		KeyDocumentReversed: "Document %s cancelled: %s changed by %d. Balance: %d",
		KeyRoleGranted:      "You were granted the %s role",
		KeyRoleRevoked:      "Your administrative role was revoked",
		KeyStatementTitle:   "Statement %s - %s",
		KeyStatementAccount: "Account: %s",
		KeyStatementOpening: "Opening balance: %d",
		KeyStatementColumns: "Date|Opening|In|Out|Closing",
		KeyStatementEmpty:   "No movements in this period",
		KeyStatementTotals:  "Total in: %d, total out: %d",
		KeyStatementClosing: "Closing balance: %d",
		KeyStatementPage:    "Page %d of %d",
	},
	language.Russian: {
		KeyKindMoney:        "деньги",
		KeyKindBonus:        "бонусы",
		KeyEntryAdded:       "+%d %s (документ %s). Баланс: %d",
		KeyEntryRemoved:     "-%d %s (документ %s). Баланс: %d",
		KeyEntryCorrected:   "Документ %s исправлен: %s изменено с %d на %d. Баланс: %d",
		KeyEntryDescription: "%s\nОписание: %s",
		KeyDocumentReversed: "Документ %s отменён: %s изменено на %d. Баланс: %d",
		KeyRoleGranted:      "Вам назначена роль %s",
		KeyRoleRevoked:      "Ваша административная роль отозвана",
		KeyStatementTitle:   "Выписка %s - %s",
		KeyStatementAccount: "Счёт: %s",
		KeyStatementOpening: "Входящий остаток: %d",
		KeyStatementColumns: "Дата|Начало|Приход|Расход|Конец",
		KeyStatementEmpty:   "За период движений нет",
		KeyStatementTotals:  "Приход: %d, расход: %d",
		KeyStatementClosing: "Исходящий остаток: %d",
		KeyStatementPage:    "Страница %d из %d",
	},
	language.Uzbek: {
		KeyKindMoney:        "pul",
		KeyKindBonus:        "bonus ballar",
		KeyEntryAdded:       "+%d %s (hujjat %s). Balans: %d",
		KeyEntryRemoved:     "-%d %s (hujjat %s). Balans: %d",
		KeyEntryCorrected:   "Hujjat %s tuzatildi: %s %d dan %d ga o'zgardi. Balans: %d",
		KeyEntryDescription: "%s\nTavsif: %s",
		KeyDocumentReversed: "Hujjat %s bekor qilindi: %s %d ga o'zgardi. Balans: %d",
		KeyRoleGranted:      "Sizga %s roli berildi",
		KeyRoleRevoked:      "Ma'muriy rolingiz bekor qilindi",
		KeyStatementTitle:   "Ko'chirma %s - %s",
		KeyStatementAccount: "Hisob: %s",
		KeyStatementOpening: "Boshlang'ich qoldiq: %d",
		KeyStatementColumns: "Sana|Boshi|Kirim|Chiqim|Oxiri",
		KeyStatementEmpty:   "Bu davrda harakat yo'q",
		KeyStatementTotals:  "Kirim: %d, chiqim: %d",
		KeyStatementClosing: "Yakuniy qoldiq: %d",
		KeyStatementPage:    "Sahifa %d / %d",
	},
}

var (
	cat = mustBuild()

	tags = map[string]language.Tag{
		"en": language.English,
		"ru": language.Russian,
		"uz": language.Uzbek,
	}
)

func mustBuild() *catalog.Builder {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	for tag, msgs := range translations {
		for key, msg := range msgs {
			if err := b.SetString(tag, key, msg); err != nil {
				panic(fmt.Sprintf("i18n: %s %s: %v", tag, key, err))
			}
		}
	}
	return b
}

// Tag returns the language of a locale, English for unsupported ones.
func Tag(locale string) language.Tag {
	return tags[domain.NormalizeLocale(locale)]
}

// Printer returns a printer formatting catalog messages and numbers for locale.
func Printer(locale string) *message.Printer {
	return message.NewPrinter(Tag(locale), message.Catalog(cat))
}

// KindName returns the localized name of a balance kind.
func KindName(p *message.Printer, kind domain.Kind) string {
	if kind == domain.KindBonus {
		return p.Sprintf(KeyKindBonus)
	}
	return p.Sprintf(KeyKindMoney)
}

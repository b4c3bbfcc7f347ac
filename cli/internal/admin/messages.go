package admin

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	msgLoading          = "admin.status.loading"
	msgTotal            = "admin.status.total"
	msgFetchFailed      = "admin.status.fetch_failed"
	msgEmptyList        = "admin.list.empty"
	msgExporting        = "admin.export.in_progress"
	msgExported         = "admin.export.done"
	msgNothingToExport  = "admin.export.nothing"
	msgNoSourceDetected = "admin.status.no_source"
)

var supportedLocales = []language.Tag{language.Korean, language.English}

var localeMatcher = language.NewMatcher(supportedLocales)

func init() {
	ko := language.Korean
	message.SetString(ko, msgLoading, "로딩…")
	message.SetString(ko, msgTotal, "총 %d건 (마지막 업데이트: %s)")
	message.SetString(ko, msgFetchFailed, "서버에서 데이터를 가져오는 중 오류가 발생했습니다.")
	message.SetString(ko, msgEmptyList, "저장된 제출이 없습니다.")
	message.SetString(ko, msgExporting, "CSV 생성 중…")
	message.SetString(ko, msgExported, "CSV 생성 완료: %d건 (%s)")
	message.SetString(ko, msgNothingToExport, "내보낼 제출이 없습니다.")
	message.SetString(ko, msgNoSourceDetected, "조회할 서버가 설정되지 않았습니다.")

	en := language.English
	message.SetString(en, msgLoading, "Loading…")
	message.SetString(en, msgTotal, "Total %d (last update: %s)")
	message.SetString(en, msgFetchFailed, "An error occurred while fetching data from the server.")
	message.SetString(en, msgEmptyList, "No stored submissions.")
	message.SetString(en, msgExporting, "Generating CSV…")
	message.SetString(en, msgExported, "CSV ready: %d rows (%s)")
	message.SetString(en, msgNothingToExport, "No submissions to export.")
	message.SetString(en, msgNoSourceDetected, "No submission source is configured.")
}

// NewPrinter returns a printer for locale. Unknown or empty locales use Korean.
func NewPrinter(locale string) *message.Printer {
	tag, _ := language.MatchStrings(localeMatcher, locale)
	base, _ := tag.Base()
	if enBase, _ := language.English.Base(); base == enBase {
		return message.NewPrinter(language.English)
	}
	return message.NewPrinter(language.Korean)
}

// EmptyListText is shown in place of the list when nothing is visible.
func EmptyListText(p *message.Printer) string {
	return p.Sprintf(msgEmptyList)
}

// NoSourceText reports a profile with neither API nor relational source.
func NoSourceText(p *message.Printer) string {
	return p.Sprintf(msgNoSourceDetected)
}

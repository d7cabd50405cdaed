// Package i18n holds the portal's user facing messages in English and Persian.
package i18n

import (
	"fmt"

	"github.com/go-playground/locales/en"
	"github.com/go-playground/locales/fa"
	ut "github.com/go-playground/universal-translator"
)

const (
	English = "en"
	Persian = "fa"
)

// Message keys
const (
	ServerError  = "server_error"
	InvalidInput = "invalid_input"
	LoginFailed  = "login_failed"
	NoRole       = "no_role"
	Unauthorized = "unauthorized"
	Forbidden    = "forbidden"

	CoursesLoadFailed  = "courses_load_failed"
	CourseCreated      = "course_created"
	CourseUpdated      = "course_updated"
	CourseDeleted      = "course_deleted"
	CourseDeleteFailed = "course_delete_failed"

	PrerequisitesLoadFailed = "prerequisites_load_failed"
	PrerequisiteCreated     = "prerequisite_created"
	PrerequisiteDeleted     = "prerequisite_deleted"
	UnknownCourseCode       = "unknown_course_code"

	UnitLimitLoadFailed = "unit_limit_load_failed"
	UnitLimitSaved      = "unit_limit_saved"

	TermsLoadFailed = "terms_load_failed"
	TermCreated     = "term_created"
	TermUpdated     = "term_updated"
	TermActivated   = "term_activated"
	TermDeactivated = "term_deactivated"

	UsersLoadFailed     = "users_load_failed"
	StudentRegistered   = "student_registered"
	ProfessorRegistered = "professor_registered"
	UserDeleted         = "user_deleted"

	HistoryLoadFailed = "history_load_failed"

	DraftLoadFailed      = "draft_load_failed"
	DraftEmpty           = "draft_empty"
	CourseSelected       = "course_selected"
	CourseDropped        = "course_dropped"
	SelectionFinalized   = "selection_finalized"
	UnitsOutOfRange      = "units_out_of_range"
	ScheduleLoadFailed   = "schedule_load_failed"
	ReportCardLoadFailed = "report_card_load_failed"

	RosterLoadFailed = "roster_load_failed"
	StudentRemoved   = "student_removed"
)

var messages = map[string]map[string]string{
	English: {
		ServerError:  "there was a problem communicating with the server",
		InvalidInput: "some fields are invalid",
		LoginFailed:  "login failed",
		NoRole:       "user role was not found in the token",
		Unauthorized: "your session has expired, please log in again",
		Forbidden:    "this section is not available for your role",

		CoursesLoadFailed:  "failed to load the course list",
		CourseCreated:      "course {0} created",
		CourseUpdated:      "course {0} updated",
		CourseDeleted:      "course deleted",
		CourseDeleteFailed: "failed to delete the course",

		PrerequisitesLoadFailed: "failed to load prerequisites",
		PrerequisiteCreated:     "prerequisite saved",
		PrerequisiteDeleted:     "prerequisite deleted",
		UnknownCourseCode:       "invalid course or prerequisite code",

		UnitLimitLoadFailed: "failed to load the unit limit",
		UnitLimitSaved:      "unit limit saved",

		TermsLoadFailed: "failed to load terms",
		TermCreated:     "term {0} created",
		TermUpdated:     "term {0} updated",
		TermActivated:   "term is now active",
		TermDeactivated: "term is now inactive",

		UsersLoadFailed:     "failed to load the user list",
		StudentRegistered:   "student {0} registered",
		ProfessorRegistered: "professor {0} registered",
		UserDeleted:         "user deleted",

		HistoryLoadFailed: "failed to load login history",

		DraftLoadFailed:      "failed to load your draft selection",
		DraftEmpty:           "your draft has no courses",
		CourseSelected:       "course added to your draft",
		CourseDropped:        "course removed from your draft",
		SelectionFinalized:   "selection finalized with {0} units",
		UnitsOutOfRange:      "total units must be between {0} and {1}",
		ScheduleLoadFailed:   "failed to load the weekly schedule",
		ReportCardLoadFailed: "failed to load the report card",

		RosterLoadFailed: "failed to load the student list",
		StudentRemoved:   "student removed from the course",
	},
	Persian: {
		ServerError:  "خطا در ارتباط با سرور.",
		InvalidInput: "برخی از فیلدها نامعتبر هستند.",
		LoginFailed:  "ورود ناموفق بود.",
		NoRole:       "نقش کاربر در توکن یافت نشد.",
		Unauthorized: "نشست شما منقضی شده است، دوباره وارد شوید.",
		Forbidden:    "این بخش برای نقش شما در دسترس نیست.",

		CoursesLoadFailed:  "خطا در دریافت لیست دروس.",
		CourseCreated:      "درس {0} با موفقیت ایجاد شد.",
		CourseUpdated:      "درس {0} با موفقیت ویرایش شد.",
		CourseDeleted:      "درس با موفقیت حذف شد.",
		CourseDeleteFailed: "حذف درس با مشکل مواجه شد.",

		PrerequisitesLoadFailed: "خطا در دریافت پیش‌نیازها.",
		PrerequisiteCreated:     "پیش‌نیاز با موفقیت ثبت شد.",
		PrerequisiteDeleted:     "پیش‌نیاز حذف شد.",
		UnknownCourseCode:       "کد درس یا پیش‌نیاز نامعتبر است.",

		UnitLimitLoadFailed: "خطا در دریافت محدودیت واحد.",
		UnitLimitSaved:      "محدودیت واحد با موفقیت ذخیره شد.",

		TermsLoadFailed: "خطا در دریافت ترم‌ها.",
		TermCreated:     "ترم {0} با موفقیت ایجاد شد.",
		TermUpdated:     "ترم {0} با موفقیت ویرایش شد.",
		TermActivated:   "ترم فعال شد.",
		TermDeactivated: "ترم غیرفعال شد.",

		UsersLoadFailed:     "خطا در دریافت لیست کاربران.",
		StudentRegistered:   "دانشجو {0} با موفقیت ثبت شد.",
		ProfessorRegistered: "استاد {0} با موفقیت ثبت شد.",
		UserDeleted:         "کاربر حذف شد.",

		HistoryLoadFailed: "خطا در دریافت تاریخچه ورود.",

		DraftLoadFailed:      "خطا در دریافت پیش‌انتخاب.",
		DraftEmpty:           "لیست موقت خالی است.",
		CourseSelected:       "درس به پیش‌انتخاب اضافه شد.",
		CourseDropped:        "درس از پیش‌انتخاب حذف شد.",
		SelectionFinalized:   "انتخاب واحد با {0} واحد نهایی شد.",
		UnitsOutOfRange:      "مجموع واحدها باید بین {0} تا {1} باشد.",
		ScheduleLoadFailed:   "خطا در دریافت برنامه هفتگی.",
		ReportCardLoadFailed: "خطا در دریافت کارنامه.",

		RosterLoadFailed: "خطا در دریافت لیست دانشجویان.",
		StudentRemoved:   "دانشجو از درس حذف شد.",
	},
}

// Catalog translates message keys for a single locale
type Catalog struct {
	ut.Translator
}

// New builds the catalog for lang, falling back to English for unknown locales.
func New(lang string) (*Catalog, error) {
	uni := ut.New(en.New(), en.New(), fa.New())

	trans, found := uni.GetTranslator(lang)
	if !found {
		lang = English
	}

	for key, text := range messages[lang] {
		if err := trans.Add(key, text, false); err != nil {
			return nil, fmt.Errorf("failed to add message %s: %w", key, err)
		}
	}

	return &Catalog{trans}, nil
}

// Text returns the translated message, or the key when no translation exists.
func (c *Catalog) Text(key string, params ...string) string {
	s, err := c.T(key, params...)
	if err != nil {
		return key
	}
	return s
}

// Lang reports the catalog's locale
func (c *Catalog) Lang() string {
	return c.Locale()
}

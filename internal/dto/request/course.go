package request

type CreateModuleRequest struct {
	CustomID        *string  `json:"custom_id,omitempty" validate:"omitempty,max=50"`
	Name            string   `json:"name" validate:"required,max=200"`
	Description     string   `json:"description" validate:"required"`
	ImagePath       *string  `json:"image_path,omitempty" validate:"omitempty,url,max=500"`
	Color           string   `json:"color" validate:"required,hexcolor,len=7"`
	AcademicStreams []string `json:"academic_streams,omitempty" validate:"omitempty,dive,uuid"`
}

type CreateChapterRequest struct {
	ModuleID        string   `json:"module_id" validate:"required,uuid"`
	Name            string   `json:"name" validate:"required,max=200"`
	Description     string   `json:"description" validate:"required"`
	Price           float64  `json:"price" validate:"gte=0"`
	AcademicStreams []string `json:"academic_streams,omitempty" validate:"omitempty,dive,uuid"`
}

// UpdateChapterRequest is a partial update. A nil AcademicStreams keeps the
// current streams; an empty list clears them.
type UpdateChapterRequest struct {
	Name            *string  `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Description     *string  `json:"description,omitempty"`
	Price           *float64 `json:"price,omitempty" validate:"omitempty,gte=0"`
	AcademicStreams []string `json:"academic_streams,omitempty" validate:"omitempty,dive,uuid"`
}

type CreateLessonRequest struct {
	ChapterID         string   `json:"chapter_id" validate:"required,uuid"`
	Title             string   `json:"title" validate:"required,max=200"`
	Description       string   `json:"description" validate:"required"`
	Image             *string  `json:"image,omitempty" validate:"omitempty,url,max=500"`
	Duration          *int     `json:"duration,omitempty" validate:"omitempty,gte=0"`
	Order             *int     `json:"order,omitempty" validate:"omitempty,gte=0"`
	VideoURL          *string  `json:"video_url,omitempty" validate:"omitempty,url,max=500"`
	PDFURL            *string  `json:"pdf_url,omitempty" validate:"omitempty,url,max=500"`
	ExerciseTotalMark int      `json:"exercise_total_mark" validate:"gte=0"`
	ExerciseTotalXP   int      `json:"exercise_total_xp" validate:"gte=0"`
	AcademicStreams   []string `json:"academic_streams,omitempty" validate:"omitempty,dive,uuid"`
}

// UpdateLessonRequest is a partial update; see UpdateChapterRequest for
// AcademicStreams.
type UpdateLessonRequest struct {
	Title             *string  `json:"title,omitempty" validate:"omitempty,min=1,max=200"`
	Description       *string  `json:"description,omitempty" validate:"omitempty,min=1"`
	Image             *string  `json:"image,omitempty" validate:"omitempty,url,max=500"`
	Duration          *int     `json:"duration,omitempty" validate:"omitempty,gte=0"`
	Order             *int     `json:"order,omitempty" validate:"omitempty,gte=0"`
	VideoURL          *string  `json:"video_url,omitempty" validate:"omitempty,url,max=500"`
	PDFURL            *string  `json:"pdf_url,omitempty" validate:"omitempty,url,max=500"`
	ExerciseTotalMark *int     `json:"exercise_total_mark,omitempty" validate:"omitempty,gte=0"`
	ExerciseTotalXP   *int     `json:"exercise_total_xp,omitempty" validate:"omitempty,gte=0"`
	AcademicStreams   []string `json:"academic_streams,omitempty" validate:"omitempty,dive,uuid"`
}

package service

import "cdp-query/internal/domain"

/*
========================
 Tablas de palabras clave
========================
*/

// Categorías de interés.
const (
	CategoryLoan       = "대출"
	CategoryBeauty     = "뷰티"
	CategoryTravel     = "여행"
	CategoryGolf       = "골프"
	CategoryExercise   = "운동"
	CategoryShopping   = "쇼핑"
	CategoryWedding    = "결혼"
	CategoryChildcare  = "자녀"
	CategoryCar        = "자동차"
	CategoryInvestment = "투자"
	CategoryRealEstate = "부동산"
	CategoryHighIncome = "고소득"
	CategoryLifestyle  = "라이프스타일"
)

const (
	IncomeHigh = "고소득"
	GenderF    = "여성"
	GenderM    = "남성"
)

// keywordGroup conserva el orden de declaración: define el desempate del ranking
// y el orden del first-match-wins demográfico.
type keywordGroup struct {
	name     string
	keywords []string
}

var interestKeywords = []keywordGroup{
	{CategoryLoan, []string{"대출", "빌려", "신용", "금융", "돈", "차용", "융자", "여신", "현금", "자금"}},
	{CategoryBeauty, []string{"뷰티", "화장품", "미용", "코스메틱", "스킨케어", "메이크업", "향수", "네일", "에스테틱"}},
	{CategoryTravel, []string{"여행", "해외", "항공", "호텔", "휴가", "관광", "출국", "비행", "패키지", "리조트"}},
	{CategoryGolf, []string{"골프", "라운딩", "클럽", "필드", "골프장", "스크린골프", "캐디", "그린피"}},
	{CategoryExercise, []string{"운동", "헬스", "피트니스", "요가", "필라테스", "수영", "러닝", "마라톤", "트레이닝"}},
	{CategoryShopping, []string{"쇼핑", "구매", "온라인몰", "배송", "배달", "주문", "이커머스", "할인"}},
	{CategoryWedding, []string{"결혼", "웨딩", "신혼", "허니문", "예식", "결혼식", "신부", "드레스"}},
	{CategoryChildcare, []string{"자녀", "아이", "아기", "어린이", "육아", "출산", "임신", "유치원", "학원"}},
	{CategoryCar, []string{"자동차", "차량", "카", "자동차보험", "주차", "주유", "렌트", "리스"}},
	{CategoryInvestment, []string{"투자", "주식", "펀드", "자산", "재테크", "금융상품", "적금", "예금"}},
	{CategoryRealEstate, []string{"집", "아파트", "주택", "전세", "월세", "매매", "부동산", "이사"}},
	{CategoryHighIncome, []string{"고소득", "부자", "프리미엄", "럭셔리", "명품", "고급"}},
	{CategoryLifestyle, []string{"취미", "여가", "문화", "예술", "음악", "영화", "독서"}},
}

var agePatterns = []keywordGroup{
	{"20대", []string{"20대", "젊은", "청년", "신입", "대학생", "사회초년생"}},
	{"30대", []string{"30대", "직장인", "워킹맘", "신혼", "커리어"}},
	{"40대", []string{"40대", "중년", "관리직", "팀장", "임원"}},
	{"50대", []string{"50대", "시니어", "중장년", "은퇴준비"}},
}

var genderPatterns = []keywordGroup{
	{GenderF, []string{"여성", "여자", "엄마", "주부", "워킹맘", "언니", "누나"}},
	{GenderM, []string{"남성", "남자", "아빠", "직장인", "형", "오빠"}},
}

var incomePatterns = []keywordGroup{
	{IncomeHigh, []string{"고소득", "부자", "프리미엄", "럭셔리", "고급", "명품", "비싼"}},
	{"중산층", []string{"중산층", "일반", "평균", "보통"}},
	{"실용적", []string{"절약", "할인", "저렴", "가성비", "알뜰"}},
}

var lifeStagePatterns = []keywordGroup{
	{"신혼", []string{"신혼", "결혼", "웨딩"}},
	{"육아", []string{"육아", "아이", "자녀", "아기", "출산"}},
	{"싱글", []string{"혼자", "1인", "독신", "싱글"}},
	{"은퇴준비", []string{"은퇴", "노후", "시니어"}},
}

/*
========================
 Catálogo de columnas CDP
========================
*/

type ColumnFamily string

const (
	FamilyDirectBehavior   ColumnFamily = "direct_behavior"
	FamilyIndustryBehavior ColumnFamily = "industry_behavior"
	FamilyPredictionScore  ColumnFamily = "prediction_scores"
	FamilyDemographicFlag  ColumnFamily = "demographic_flags"
)

// ColumnSpec es la plantilla estática de una columna del catálogo.
type ColumnSpec struct {
	ID          string
	Family      ColumnFamily
	Description string
	DataType    string
	Condition   string
	Priority    domain.Priority
}

const highIncomeColumn = "sc_int_highincome"

var columnCatalog = []ColumnSpec{
	// fa_int_*: comportamiento directo
	{"fa_int_loan1stfinancial", FamilyDirectBehavior, "1금융권 신용대출 실행", "date", "IS NOT NULL", domain.PriorityHigh},
	{"fa_int_loanpersonal", FamilyDirectBehavior, "신용대출 실행", "date", "IS NOT NULL", domain.PriorityHigh},
	{"fa_int_traveloverseas", FamilyDirectBehavior, "해외여행 예정", "date", "IS NOT NULL", domain.PriorityHigh},
	{"fa_int_golf", FamilyDirectBehavior, "골프용품/골프장 결제", "date", "IS NOT NULL", domain.PriorityHigh},
	{"fa_int_luxury", FamilyDirectBehavior, "100만원 이상 명품 결제", "date", "IS NOT NULL", domain.PriorityMedium},
	{"fa_int_delivery", FamilyDirectBehavior, "배달음식 결제", "date", "IS NOT NULL", domain.PriorityMedium},
	{"fa_int_wedding", FamilyDirectBehavior, "결혼 준비 관련 결제", "date", "IS NOT NULL", domain.PriorityHigh},
	{"fa_int_householdsingle", FamilyDirectBehavior, "1인 가구 관련 상품 결제", "date", "IS NOT NULL", domain.PriorityMedium},
	{"fa_int_householdchild", FamilyDirectBehavior, "어린이 관련 상품 결제", "date", "IS NOT NULL", domain.PriorityMedium},
	{"fa_int_move", FamilyDirectBehavior, "이사 관련 상품 결제", "date", "IS NOT NULL", domain.PriorityMedium},
	{"fa_int_carpurchase", FamilyDirectBehavior, "차량 구매 추정", "date", "IS NOT NULL", domain.PriorityMedium},
	{"fa_int_saving", FamilyDirectBehavior, "예적금 개설", "date", "IS NOT NULL", domain.PriorityMedium},
	{"fa_int_gym", FamilyDirectBehavior, "피트니스/헬스장 결제", "date", "IS NOT NULL", domain.PriorityMedium},
	{"fa_int_pilatesyoga", FamilyDirectBehavior, "필라테스/요가 결제", "date", "IS NOT NULL", domain.PriorityLow},

	// fa_ind_*: por rubro
	{"fa_ind_beauty", FamilyIndustryBehavior, "미용 서비스 결제", "date", "IS NOT NULL", domain.PriorityHigh},
	{"fa_ind_cosmetic", FamilyIndustryBehavior, "뷰티 제품 결제", "date", "IS NOT NULL", domain.PriorityHigh},
	{"fa_ind_travel", FamilyIndustryBehavior, "여행 서비스 결제", "date", "IS NOT NULL", domain.PriorityHigh},
	{"fa_ind_finance", FamilyIndustryBehavior, "금융 서비스 결제", "date", "IS NOT NULL", domain.PriorityMedium},
	{"fa_ind_education", FamilyIndustryBehavior, "교육 서비스 결제", "date", "IS NOT NULL", domain.PriorityMedium},
	{"fa_ind_restaurant", FamilyIndustryBehavior, "음식점 결제", "date", "IS NOT NULL", domain.PriorityLow},
	{"fa_ind_cafe", FamilyIndustryBehavior, "카페 결제", "date", "IS NOT NULL", domain.PriorityLow},

	// sc_*: scores predictivos
	{"sc_int_loan1stfinancial", FamilyPredictionScore, "1금융권 대출 예측스코어", "double", "> 0.7", domain.PriorityHigh},
	{"sc_ind_cosmetic", FamilyPredictionScore, "뷰티 제품 예측스코어", "double", "> 0.8", domain.PriorityHigh},
	{"sc_int_golf", FamilyPredictionScore, "골프 관련 예측스코어", "double", "> 0.7", domain.PriorityHigh},
	{highIncomeColumn, FamilyPredictionScore, "고소득 예측스코어", "double", "> 0.8", domain.PriorityHigh},
	{"sc_int_luxury", FamilyPredictionScore, "명품 구매 예측스코어", "double", "> 0.7", domain.PriorityMedium},
	{"sc_int_delivery", FamilyPredictionScore, "배달 이용 예측스코어", "double", "> 0.6", domain.PriorityLow},
	{"sc_int_wedding", FamilyPredictionScore, "결혼 준비 예측스코어", "double", "> 0.7", domain.PriorityMedium},
	{"sc_ind_beauty", FamilyPredictionScore, "미용 서비스 예측스코어", "double", "> 0.7", domain.PriorityMedium},

	// fi_npay_*: flags demográficos
	{"fi_npay_age20", FamilyDemographicFlag, "20대", "boolean", "= true", domain.PriorityMedium},
	{"fi_npay_age30", FamilyDemographicFlag, "30대", "boolean", "= true", domain.PriorityMedium},
	{"fi_npay_age40", FamilyDemographicFlag, "40대", "boolean", "= true", domain.PriorityMedium},
	{"fi_npay_age50", FamilyDemographicFlag, "50대", "boolean", "= true", domain.PriorityMedium},
	{"fi_npay_genderf", FamilyDemographicFlag, "여성", "boolean", "= true", domain.PriorityMedium},
	{"fi_npay_genderm", FamilyDemographicFlag, "남성", "boolean", "= true", domain.PriorityMedium},
	{"fi_npay_creditcheck", FamilyDemographicFlag, "신용조회 서비스 가입", "boolean", "= true", domain.PriorityMedium},
	{"fi_npay_membershipnormal", FamilyDemographicFlag, "플러스멤버십 가입", "boolean", "= true", domain.PriorityLow},
	{"fi_npay_myassetreg", FamilyDemographicFlag, "내자산 서비스 연동", "boolean", "= true", domain.PriorityMedium},
}

var columnIndex = indexColumns(columnCatalog)

func indexColumns(specs []ColumnSpec) map[string]ColumnSpec {
	out := make(map[string]ColumnSpec, len(specs))
	for _, s := range specs {
		out[s.ID] = s
	}
	return out
}

// LookupColumn devuelve la plantilla de una columna del catálogo.
func LookupColumn(id string) (ColumnSpec, bool) {
	spec, ok := columnIndex[id]
	return spec, ok
}

// ColumnCatalog devuelve una copia del catálogo en orden de declaración.
func ColumnCatalog() []ColumnSpec {
	out := make([]ColumnSpec, len(columnCatalog))
	copy(out, columnCatalog)
	return out
}

/*
========================
 Categoría -> columnas
========================
*/

type columnTiers struct {
	primary   []string
	secondary []string
	tertiary  []string
}

var categoryColumns = map[string]columnTiers{
	CategoryLoan: {
		primary:   []string{"fa_int_loan1stfinancial", "fa_int_loanpersonal", "sc_int_loan1stfinancial"},
		secondary: []string{"fi_npay_creditcheck", highIncomeColumn, "fa_ind_finance"},
		tertiary:  []string{"fa_int_saving", "fa_int_move", "fa_int_carpurchase"},
	},
	CategoryBeauty: {
		primary:   []string{"fa_ind_cosmetic", "fa_ind_beauty", "sc_ind_cosmetic"},
		secondary: []string{"fi_npay_genderf", "sc_ind_beauty"},
		tertiary:  []string{"fa_int_luxury", "fa_int_delivery"},
	},
	CategoryTravel: {
		primary:   []string{"fa_int_traveloverseas", "fa_ind_travel"},
		secondary: []string{highIncomeColumn, "fa_int_luxury"},
		tertiary:  []string{"fi_npay_creditcheck", "fa_int_saving"},
	},
	CategoryGolf: {
		primary:   []string{"fa_int_golf", "sc_int_golf"},
		secondary: []string{highIncomeColumn, "fa_int_luxury"},
		tertiary:  []string{"fi_npay_genderm", "fa_ind_finance"},
	},
	CategoryInvestment: {
		primary:   []string{"fa_int_saving", "fa_ind_finance"},
		secondary: []string{highIncomeColumn, "fi_npay_creditcheck"},
		tertiary:  []string{"fi_npay_myassetreg", "fa_int_loan1stfinancial"},
	},
	CategoryRealEstate: {
		primary:   []string{"fa_int_move", "fa_int_loan1stfinancial"},
		secondary: []string{highIncomeColumn, "fa_int_saving"},
		tertiary:  []string{"fa_int_wedding", "fa_int_householdchild"},
	},
}

package sentiment

// Canned recommendation templates, one per sentiment bucket. Strategy
// boilerplate only; no per-request substitution beyond bucket choice.

const templateStrongBuy = `📊 **투자 분석 요약**

🟢 **현재 상태: 강한 매수 신호**
시장 심리가 매우 긍정적이며, 상승 모멘텀이 강합니다.

💰 **실행 가능한 투자 전략**
• 매수 시점: 오늘 종가 기준 -2% 하락 시 (지정가 매수)
• 목표 수익률: +8~12% (2-3주 내)
• 손절 기준: 매수가 대비 -3%
• 추천 비중: 포트폴리오의 5~10%

📈 **주요 관찰 지표**
• 거래량: 평균 대비 150% 이상 유지 시 추가 상승 가능
• 외국인/기관 순매수 지속 여부
• 업종 내 상대 강도 (동종업계 대비 성과)

⚡ **즉시 행동 사항**
1. 증권사 앱에서 조건부 매수 주문 설정
2. 관련 뉴스 알림 설정 (주요 키워드: 실적, 목표가, 계약)
3. 일일 종가 기록하여 추세 확인`

const templateModerateBuy = `📊 **투자 분석 요약**

🟡 **현재 상태: 온건한 매수 기회**
긍정적 흐름이지만 급등보다는 안정적 상승 예상됩니다.

💰 **실행 가능한 투자 전략**
• 분할 매수: 3회 분할 (오늘 30%, 3일 후 30%, 1주 후 40%)
• 목표 수익률: +5~8% (1개월 내)
• 리스크 관리: 평균 매수가 대비 -5% 손절
• 추천 비중: 포트폴리오의 3~7%

📊 **중요 확인 사항**
• 다음 실적 발표일: 확인 필요
• 52주 고점 대비 현재가 위치
• PER/PBR 업종 평균 대비 비교

⚡ **주간 체크리스트**
□ 매일 종가 및 거래량 체크
□ 주요 공시 확인 (매일 오후 6시)
□ 경쟁사 주가 동향 비교`

const templateHold = `📊 **투자 분석 요약**

⚪ **현재 상태: 관망 권장**
뚜렷한 방향성이 없어 추가 신호를 기다려야 합니다.

🔍 **대기 중 관찰 사항**
• 돌파 신호: 20일 이동평균선 상향 돌파 + 거래량 급증
• 지지선: 최근 저점 확인하여 하방 리스크 파악
• 촉매제: 신제품 출시, 실적 발표, 업계 호재 등

📋 **현재 보유 중이라면**
• 현 상태 유지하되 추가 매수 보류
• 수익 중: 일부 익절하여 현금 확보
• 손실 중: 손절선 재설정 (-7~10%)

⏳ **일주일 내 결정 포인트**
1. 주요 기술적 지표 확인 (RSI, MACD)
2. 업종 지수 대비 상대 성과
3. 외국인/기관 매매 동향 변화`

const templateCaution = `📊 **투자 분석 요약**

🟠 **현재 상태: 주의 필요**
부정적 신호가 우세하여 방어적 접근이 필요합니다.

⚠️ **리스크 관리 우선**
• 신규 매수: 전면 보류
• 기존 보유: 비중 축소 고려 (50% 이하로)
• 관찰 기간: 최소 2주 이상
• 대안: 현금 보유 또는 안전자산 전환

📉 **하락 시나리오 대비**
• 1차 지지선: 최근 저점 -5%
• 2차 지지선: 52주 최저가
• 최악 시나리오: -15~20% 추가 하락

💡 **역발상 기회 포착**
□ 과매도 구간 진입 시 (RSI 30 이하)
□ 거래량 동반한 반등 신호
□ 악재 소진 후 저가 매수 기회`

const templateRisk = `📊 **투자 분석 요약**

🔴 **현재 상태: 위험 신호**
강한 하락 압력으로 즉각적인 대응이 필요합니다.

🚨 **긴급 대응 방안**
• 보유 중: 즉시 50% 이상 손절 실행
• 추가 하락 대비: -20% 이상 하락 가능성
• 대안 투자: 국채, 금, 달러 등 안전자산

⛔ **절대 하지 말아야 할 것**
• 물타기 (평균가 낮추기)
• 단기 반등 노린 역매수
• 신용/미수 거래

📅 **회복 시그널 (최소 1개월 후)**
1. 거래량 증가와 함께 저점 확인
2. 주요 악재 해소 뉴스
3. 기관/외국인 순매수 전환
4. 기술적 반등 신호 (이격도 과매도)`
